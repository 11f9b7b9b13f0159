package domain

import (
	"context"
	"time"
)

// Gender is the registered gender of an attendee.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Attendee represents a registered participant of an event. An attendee
// belongs to exactly one event and, when assigned, to exactly one room
// within that event's accommodations.
// swagger:model Attendee
type Attendee struct {
	ID               string                `json:"id"`
	EventID          string                `json:"event_id"`
	Name             string                `json:"name"`
	LastName         string                `json:"last_name"`
	Email            string                `json:"email"`
	Gender           Gender                `json:"gender"`
	Age              *int                  `json:"age,omitempty"`
	IsLeader         bool                  `json:"is_leader"`
	IsElderly        bool                  `json:"is_elderly"`
	SpecialRequests  string                `json:"special_requests,omitempty"`
	RoomID           *string               `json:"room_id,omitempty"`
	BusID            *string               `json:"bus_id,omitempty"`
	RegistrationDate time.Time             `json:"registration_date"`
	Preferences      []*AttendeePreference `json:"preferences,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// AttendeePreference is a co-location hint: a wish to room with a specific
// attendee, or membership in a family group identified by its head.
// A family head reference must resolve to an attendee in the same event.
// swagger:model AttendeePreference
type AttendeePreference struct {
	ID                   string  `json:"id"`
	AttendeeID           string  `json:"attendee_id"`
	PreferredAttendeeID  *string `json:"preferred_attendee_id,omitempty"`
	IsFamily             bool    `json:"is_family"`
	FamilyHeadAttendeeID *string `json:"family_head_attendee_id,omitempty"`
}

// AttendeeRepository defines storage operations for attendees. List and Get
// return attendees with their preferences populated.
type AttendeeRepository interface {
	GetByID(ctx context.Context, id string) (*Attendee, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Attendee, error)
	// UpdateRoomAssignment sets or clears (nil) the attendee's room. This is
	// the single persisted state transition of a successful assignment.
	UpdateRoomAssignment(ctx context.Context, attendeeID string, roomID *string) error
	// UpdateBusAssignment sets or clears (nil) the attendee's bus.
	UpdateBusAssignment(ctx context.Context, attendeeID string, busID *string) error
}
