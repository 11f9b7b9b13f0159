package domain

// ConflictType identifies the constraint rule a conflict was raised by.
type ConflictType string

const (
	ConflictCapacityExceeded    ConflictType = "capacity_exceeded"
	ConflictGenderMismatch      ConflictType = "gender_mismatch"
	ConflictAgeInappropriate    ConflictType = "age_inappropriate"
	ConflictPreferenceViolation ConflictType = "preference_violation"
)

// ConflictSeverity distinguishes hard constraints (error, never committable)
// from soft ones (warning, committable only with an explicit override).
type ConflictSeverity string

const (
	SeverityWarning ConflictSeverity = "warning"
	SeverityError   ConflictSeverity = "error"
)

// AssignmentConflict is a derived, never persisted, description of one
// constraint violation for one attendee/room pair. RoomID is empty when no
// specific room applies (an unassignable attendee during auto-assignment).
// swagger:model AssignmentConflict
type AssignmentConflict struct {
	Type       ConflictType     `json:"type"`
	Severity   ConflictSeverity `json:"severity"`
	AttendeeID string           `json:"attendee_id"`
	RoomID     string           `json:"room_id,omitempty"`
	Message    string           `json:"message"`
}

// IsError reports whether the conflict is a hard constraint.
func (c AssignmentConflict) IsError() bool {
	return c.Severity == SeverityError
}

// HasErrors reports whether any conflict in the list is error-severity.
func HasErrors(conflicts []AssignmentConflict) bool {
	for _, c := range conflicts {
		if c.IsError() {
			return true
		}
	}
	return false
}
