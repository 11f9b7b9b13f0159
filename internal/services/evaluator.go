package services

import (
	"fmt"

	"eventlodging/internal/domain"
)

// evaluateAssignment checks one candidate attendee→room move against the
// ledger and returns every applicable conflict, in rule precedence order:
// capacity_exceeded, gender_mismatch, age_inappropriate, preference_violation.
// It is pure: no side effects, no I/O, and the ledger is not mutated.
func evaluateAssignment(att *domain.Attendee, room *domain.Room, led *occupancyLedger) []domain.AssignmentConflict {
	var conflicts []domain.AssignmentConflict

	// Occupant count including the candidate. A move within the same room
	// does not count the attendee twice.
	count := len(led.occupantsOf(room.ID))
	if cur, ok := led.locate(att.ID); !ok || cur != room.ID {
		count++
	}
	if count > room.Capacity {
		conflicts = append(conflicts, domain.AssignmentConflict{
			Type:       domain.ConflictCapacityExceeded,
			Severity:   domain.SeverityError,
			AttendeeID: att.ID,
			RoomID:     room.ID,
			Message:    fmt.Sprintf("room %d holds %d of %d; no capacity for another occupant", room.Number, count-1, room.Capacity),
		})
	}

	if (room.GenderType == domain.RoomGenderMale || room.GenderType == domain.RoomGenderFemale) &&
		string(room.GenderType) != string(att.Gender) {
		conflicts = append(conflicts, domain.AssignmentConflict{
			Type:       domain.ConflictGenderMismatch,
			Severity:   domain.SeverityError,
			AttendeeID: att.ID,
			RoomID:     room.ID,
			Message:    fmt.Sprintf("%s attendee cannot occupy a %s room", att.Gender, room.GenderType),
		})
	}

	if att.IsElderly && !room.IsGroundFloorSuitable && led.groundFloorAlternativeExists(att, room.ID) {
		conflicts = append(conflicts, domain.AssignmentConflict{
			Type:       domain.ConflictAgeInappropriate,
			Severity:   domain.SeverityWarning,
			AttendeeID: att.ID,
			RoomID:     room.ID,
			Message:    fmt.Sprintf("attendee is elderly and room %d is not ground-floor suitable while a suitable room is free", room.Number),
		})
	}

	// Free slots remaining in the target once the candidate occupies it.
	remaining := room.Capacity - count
	seen := make(map[string]struct{})
	for _, pref := range att.Preferences {
		var linked []string
		if pref.PreferredAttendeeID != nil {
			linked = append(linked, *pref.PreferredAttendeeID)
		}
		if pref.IsFamily && pref.FamilyHeadAttendeeID != nil {
			linked = append(linked, *pref.FamilyHeadAttendeeID)
		}
		for _, id := range linked {
			if id == att.ID {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			other, ok := led.attendee(id)
			if !ok {
				continue
			}
			otherRoom, assigned := led.locate(id)
			if assigned && otherRoom != room.ID && remaining >= 1 {
				conflicts = append(conflicts, domain.AssignmentConflict{
					Type:       domain.ConflictPreferenceViolation,
					Severity:   domain.SeverityWarning,
					AttendeeID: att.ID,
					RoomID:     room.ID,
					Message:    fmt.Sprintf("attendee prefers to room with %s %s, who is assigned to a different room", other.Name, other.LastName),
				})
			}
		}
	}

	return conflicts
}
