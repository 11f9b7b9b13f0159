package domain

import "context"

// AssignmentItem is one requested attendee→room move within a bulk call.
// swagger:model AssignmentItem
type AssignmentItem struct {
	AttendeeID string `json:"attendee_id"`
	RoomID     string `json:"room_id"`
}

// Validate implements request validation for bulk items.
func (i AssignmentItem) Validate() []string {
	var errs []string
	if i.AttendeeID == "" {
		errs = append(errs, "attendee_id is required")
	}
	if i.RoomID == "" {
		errs = append(errs, "room_id is required")
	}
	return errs
}

// RoomAssignment is one committed attendee→room pair.
// swagger:model RoomAssignment
type RoomAssignment struct {
	AttendeeID string `json:"attendee_id"`
	RoomID     string `json:"room_id"`
}

// AssignmentResult is the aggregate outcome of a bulk or auto assignment.
// TotalAssigned + TotalUnassigned always equals the number of input items
// (for auto assignment, the number of attendees considered); every rejected
// item has at least one entry in Conflicts.
// swagger:model AssignmentResult
type AssignmentResult struct {
	TotalAssigned   int                  `json:"total_assigned"`
	TotalUnassigned int                  `json:"total_unassigned"`
	Assignments     []RoomAssignment     `json:"assignments"`
	Conflicts       []AssignmentConflict `json:"conflicts"`
}

// ValidationResult reports every conflict present in an event's committed
// assignments. IsValid is true iff no error-severity conflict exists.
// swagger:model ValidationResult
type ValidationResult struct {
	IsValid     bool                 `json:"is_valid"`
	Conflicts   []AssignmentConflict `json:"conflicts"`
	Suggestions []string             `json:"suggestions"`
}

// EventStatistics aggregates occupancy and demographics for dashboards.
// swagger:model EventStatistics
type EventStatistics struct {
	TotalAttendees      int            `json:"total_attendees"`
	AssignedAttendees   int            `json:"assigned_attendees"`
	UnassignedAttendees int            `json:"unassigned_attendees"`
	TotalRooms          int            `json:"total_rooms"`
	TotalCapacity       int            `json:"total_capacity"`
	OccupiedBeds        int            `json:"occupied_beds"`
	OccupancyRate       float64        `json:"occupancy_rate"`
	GenderDistribution  map[Gender]int `json:"gender_distribution"`
	ElderlyCount        int            `json:"elderly_count"`
	ConflictCount       int            `json:"conflict_count"`
	BusCapacity         int            `json:"bus_capacity"`
	BusPassengers       int            `json:"bus_passengers"`
}

// RoomOccupancy pairs a room with its current occupants, for listings.
// swagger:model RoomOccupancy
type RoomOccupancy struct {
	Room      *Room       `json:"room"`
	Occupants []*Attendee `json:"occupants"`
}

// AssignmentService is the room and transport assignment engine.
//
// AssignAttendee validates and commits (or rejects) one attendee→room move.
// A nil roomID clears the assignment unconditionally and never conflicts.
// On rejection the returned conflicts are non-empty and err is
// ErrConstraintViolation (hard) or ErrOverrideRequired (soft, no override).
// On success the returned conflicts hold any warnings that were overridden.
//
// BulkAssign applies items sequentially in caller order against one mutating
// occupancy view, so later items see earlier commits. A rejected item never
// aborts the batch. The whole request is rejected up front (ErrNotFound) if
// the event or any referenced attendee or room does not exist.
//
// AutoAssign places every currently unassigned attendee of the event into
// rooms with free capacity, honoring family/preference groups and the
// ground-floor preference of elderly attendees. Best-effort: attendees with
// no compatible room are reported, never silently dropped.
type AssignmentService interface {
	AssignAttendee(ctx context.Context, attendeeID string, roomID *string, overrideWarnings bool) ([]AssignmentConflict, error)
	AssignToBus(ctx context.Context, attendeeID string, busID *string) error
	BulkAssign(ctx context.Context, eventID string, items []AssignmentItem, overrideWarnings bool) (*AssignmentResult, error)
	AutoAssign(ctx context.Context, eventID string, overrideWarnings bool) (*AssignmentResult, error)
	Validate(ctx context.Context, eventID string) (*ValidationResult, error)
	Statistics(ctx context.Context, eventID string) (*EventStatistics, error)
	ListRoomOccupancy(ctx context.Context, eventID string) ([]*RoomOccupancy, error)
}

// AssignmentNotifier is the outbound notification collaborator. Failures are
// logged by implementations and never fail the assignment itself.
type AssignmentNotifier interface {
	NotifyRoomAssigned(ctx context.Context, attendee *Attendee, room *Room)
}
