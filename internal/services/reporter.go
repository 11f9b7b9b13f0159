package services

import (
	"context"
	"fmt"

	"eventlodging/internal/domain"
)

// Validate re-runs the constraint evaluator against every committed
// attendee/room pair of the event and reports all existing violations
// without mutating anything. IsValid is true iff no error-severity conflict
// exists anywhere in the event.
func (s *assignmentService) Validate(ctx context.Context, eventID string) (*domain.ValidationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	led, err := s.eventLedger(ctx, eventID)
	if err != nil {
		return nil, err
	}

	result := &domain.ValidationResult{
		IsValid:     true,
		Conflicts:   []domain.AssignmentConflict{},
		Suggestions: []string{},
	}
	for _, r := range led.roomOrder {
		for _, att := range led.occupantsOf(r.ID) {
			conflicts := evaluateAssignment(att, r, led)
			result.Conflicts = append(result.Conflicts, conflicts...)
		}
		if over := len(led.occupantsOf(r.ID)) - r.Capacity; over > 0 {
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("room %d is over capacity; move %d occupant(s) elsewhere", r.Number, over))
		}
	}
	if domain.HasErrors(result.Conflicts) {
		result.IsValid = false
	}

	unassigned := led.unassignedAttendees()
	if len(unassigned) > 0 {
		free := 0
		for _, r := range led.roomsWithFreeCapacity(nil, false) {
			free += led.freeCapacity(r.ID)
		}
		if free > 0 {
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("%d attendee(s) unassigned with %d free bed(s); run auto-assign", len(unassigned), free))
		}
	}
	for _, c := range result.Conflicts {
		if c.Type == domain.ConflictAgeInappropriate {
			result.Suggestions = append(result.Suggestions,
				fmt.Sprintf("move attendee %s to a ground-floor-suitable room", c.AttendeeID))
		}
	}
	return result, nil
}

// Statistics aggregates occupancy and demographic numbers over the ledger.
// Read-only and recomputed per request.
func (s *assignmentService) Statistics(ctx context.Context, eventID string) (*domain.EventStatistics, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	led, err := s.eventLedger(ctx, eventID)
	if err != nil {
		return nil, err
	}

	stats := &domain.EventStatistics{
		GenderDistribution: make(map[domain.Gender]int),
	}
	for _, a := range led.attendees {
		stats.TotalAttendees++
		stats.GenderDistribution[a.Gender]++
		if a.IsElderly {
			stats.ElderlyCount++
		}
		if a.RoomID != nil {
			stats.AssignedAttendees++
		} else {
			stats.UnassignedAttendees++
		}
		if a.BusID != nil {
			stats.BusPassengers++
		}
	}
	for _, r := range led.roomOrder {
		stats.TotalRooms++
		stats.TotalCapacity += r.Capacity
		stats.OccupiedBeds += len(led.occupantsOf(r.ID))
		for _, att := range led.occupantsOf(r.ID) {
			stats.ConflictCount += len(evaluateAssignment(att, r, led))
		}
	}
	if stats.TotalCapacity > 0 {
		stats.OccupancyRate = float64(stats.OccupiedBeds) / float64(stats.TotalCapacity)
	}
	for _, b := range led.buses {
		stats.BusCapacity += b.Capacity
	}
	return stats, nil
}
