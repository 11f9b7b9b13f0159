package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventlodging/internal/domain"
)

type assignmentService struct {
	eventRepo      domain.EventRepository
	attendeeRepo   domain.AttendeeRepository
	roomRepo       domain.RoomRepository
	busRepo        domain.BusRepository
	notifier       domain.AssignmentNotifier
	contextTimeout time.Duration
}

// NewAssignmentService creates the assignment engine with the given
// repositories. notifier may be nil, in which case no notifications are sent.
func NewAssignmentService(
	eventRepo domain.EventRepository,
	attendeeRepo domain.AttendeeRepository,
	roomRepo domain.RoomRepository,
	busRepo domain.BusRepository,
	notifier domain.AssignmentNotifier,
	timeout time.Duration,
) domain.AssignmentService {
	return &assignmentService{
		eventRepo:      eventRepo,
		attendeeRepo:   attendeeRepo,
		roomRepo:       roomRepo,
		busRepo:        busRepo,
		notifier:       notifier,
		contextTimeout: timeout,
	}
}

func (s *assignmentService) AssignAttendee(ctx context.Context, attendeeID string, roomID *string, overrideWarnings bool) ([]domain.AssignmentConflict, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	att, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get attendee: %w", err)
	}

	// Unassign never conflicts and is idempotent: clearing an already clear
	// assignment persists nothing.
	if roomID == nil {
		if att.RoomID == nil {
			return nil, nil
		}
		if err := s.attendeeRepo.UpdateRoomAssignment(ctx, att.ID, nil); err != nil {
			return nil, fmt.Errorf("clear room assignment: %w", err)
		}
		return nil, nil
	}

	led, err := buildLedger(ctx, att.EventID, s.attendeeRepo, s.roomRepo, s.busRepo)
	if err != nil {
		return nil, err
	}
	room, ok := led.room(*roomID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !room.IsAvailable {
		return nil, domain.ErrInvalidInput
	}

	conflicts := evaluateAssignment(att, room, led)
	if domain.HasErrors(conflicts) {
		return conflicts, domain.ErrConstraintViolation
	}
	if len(conflicts) > 0 && !overrideWarnings {
		return conflicts, domain.ErrOverrideRequired
	}

	if err := s.attendeeRepo.UpdateRoomAssignment(ctx, att.ID, roomID); err != nil {
		return nil, fmt.Errorf("update room assignment: %w", err)
	}
	led.apply(att.ID, roomID)
	if len(led.occupantsOf(room.ID)) > room.Capacity {
		return nil, fmt.Errorf("room %d after commit: %w", room.Number, domain.ErrInvariantBroken)
	}

	if s.notifier != nil {
		s.notifier.NotifyRoomAssigned(ctx, att, room)
	}
	return conflicts, nil
}

func (s *assignmentService) AssignToBus(ctx context.Context, attendeeID string, busID *string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	att, err := s.attendeeRepo.GetByID(ctx, attendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get attendee: %w", err)
	}

	if busID == nil {
		if att.BusID == nil {
			return nil
		}
		if err := s.attendeeRepo.UpdateBusAssignment(ctx, att.ID, nil); err != nil {
			return fmt.Errorf("clear bus assignment: %w", err)
		}
		return nil
	}

	led, err := buildLedger(ctx, att.EventID, s.attendeeRepo, s.roomRepo, s.busRepo)
	if err != nil {
		return err
	}
	bus, ok := led.bus(*busID)
	if !ok {
		return domain.ErrNotFound
	}
	// Buses carry only the capacity constraint. A move within the same bus
	// is a no-op.
	if cur, on := led.busLocation[att.ID]; !on || cur != bus.ID {
		if led.busFreeCapacity(bus.ID) <= 0 {
			return domain.ErrConstraintViolation
		}
	}
	if err := s.attendeeRepo.UpdateBusAssignment(ctx, att.ID, busID); err != nil {
		return fmt.Errorf("update bus assignment: %w", err)
	}
	return nil
}

func (s *assignmentService) BulkAssign(ctx context.Context, eventID string, items []domain.AssignmentItem, overrideWarnings bool) (*domain.AssignmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	led, err := s.eventLedger(ctx, eventID)
	if err != nil {
		return nil, err
	}
	// The whole request is rejected before any item commits if it references
	// an unknown attendee or room.
	for _, item := range items {
		if _, ok := led.attendee(item.AttendeeID); !ok {
			return nil, domain.ErrNotFound
		}
		if _, ok := led.room(item.RoomID); !ok {
			return nil, domain.ErrNotFound
		}
	}

	result := &domain.AssignmentResult{
		Assignments: []domain.RoomAssignment{},
		Conflicts:   []domain.AssignmentConflict{},
	}
	for _, item := range items {
		if err := s.commitItem(ctx, led, item, overrideWarnings, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// commitItem evaluates and commits or rejects one attendee→room pair against
// the mutating ledger, recording the outcome in result. Rejections are
// recorded, never returned as errors; only infrastructure failures abort.
func (s *assignmentService) commitItem(ctx context.Context, led *occupancyLedger, item domain.AssignmentItem, overrideWarnings bool, result *domain.AssignmentResult) error {
	att, _ := led.attendee(item.AttendeeID)
	room, _ := led.room(item.RoomID)

	if !room.IsAvailable {
		result.TotalUnassigned++
		result.Conflicts = append(result.Conflicts, domain.AssignmentConflict{
			Type:       domain.ConflictCapacityExceeded,
			Severity:   domain.SeverityError,
			AttendeeID: att.ID,
			RoomID:     room.ID,
			Message:    fmt.Sprintf("room %d is not available for assignment", room.Number),
		})
		return nil
	}

	conflicts := evaluateAssignment(att, room, led)
	if domain.HasErrors(conflicts) || (len(conflicts) > 0 && !overrideWarnings) {
		result.TotalUnassigned++
		result.Conflicts = append(result.Conflicts, conflicts...)
		return nil
	}

	if err := s.attendeeRepo.UpdateRoomAssignment(ctx, att.ID, &room.ID); err != nil {
		return fmt.Errorf("update room assignment: %w", err)
	}
	led.apply(att.ID, &room.ID)
	if len(led.occupantsOf(room.ID)) > room.Capacity {
		return fmt.Errorf("room %d after commit: %w", room.Number, domain.ErrInvariantBroken)
	}
	result.TotalAssigned++
	result.Assignments = append(result.Assignments, domain.RoomAssignment{AttendeeID: att.ID, RoomID: room.ID})
	result.Conflicts = append(result.Conflicts, conflicts...)
	return nil
}

func (s *assignmentService) ListRoomOccupancy(ctx context.Context, eventID string) ([]*domain.RoomOccupancy, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	led, err := s.eventLedger(ctx, eventID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.RoomOccupancy, 0, len(led.roomOrder))
	for _, r := range led.roomOrder {
		occ := led.occupantsOf(r.ID)
		if occ == nil {
			occ = []*domain.Attendee{}
		}
		out = append(out, &domain.RoomOccupancy{Room: r, Occupants: occ})
	}
	return out, nil
}

// eventLedger verifies the event exists and builds its occupancy ledger.
func (s *assignmentService) eventLedger(ctx context.Context, eventID string) (*occupancyLedger, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return buildLedger(ctx, eventID, s.attendeeRepo, s.roomRepo, s.busRepo)
}
