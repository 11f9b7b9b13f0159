package services

import (
	"context"
	"errors"
	"testing"

	"eventlodging/internal/domain"
)

func TestValidate_CleanEventIsValid(t *testing.T) {
	room := testRoom("r1", 101, 2, domain.RoomGenderMale, false)
	att := testAttendee("a1", domain.GenderMale)
	att.RoomID = strptr("r1")
	svc, _, _ := newTestService([]*domain.Attendee{att}, []*domain.Room{room}, nil)

	result, err := svc.Validate(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid || len(result.Conflicts) != 0 {
		t.Fatalf("expected a valid event, got %+v", result)
	}
}

func TestValidate_DetectsCommittedGenderMismatch(t *testing.T) {
	room := testRoom("r1", 101, 2, domain.RoomGenderFemale, false)
	att := testAttendee("a1", domain.GenderMale)
	att.RoomID = strptr("r1")
	svc, attRepo, _ := newTestService([]*domain.Attendee{att}, []*domain.Room{room}, nil)

	result, err := svc.Validate(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatalf("event with a committed gender mismatch must be invalid")
	}
	found := false
	for _, c := range result.Conflicts {
		if c.Type == domain.ConflictGenderMismatch && c.AttendeeID == "a1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a gender_mismatch conflict, got %+v", result.Conflicts)
	}
	if len(attRepo.roomUpdates) != 0 {
		t.Fatalf("validate must not mutate state")
	}
}

func TestValidate_DetectsOverCapacityRoom(t *testing.T) {
	room := testRoom("r1", 101, 1, domain.RoomGenderMale, false)
	a1 := testAttendee("a1", domain.GenderMale)
	a1.RoomID = strptr("r1")
	a2 := testAttendee("a2", domain.GenderMale)
	a2.RoomID = strptr("r1")
	svc, _, _ := newTestService([]*domain.Attendee{a1, a2}, []*domain.Room{room}, nil)

	result, err := svc.Validate(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid {
		t.Fatalf("over-capacity room must make the event invalid")
	}
	if len(result.Suggestions) == 0 {
		t.Fatalf("expected a suggestion for the over-capacity room")
	}
}

func TestValidate_SuggestsAutoAssignForUnassigned(t *testing.T) {
	room := testRoom("r1", 101, 2, domain.RoomGenderMale, false)
	att := testAttendee("a1", domain.GenderMale)
	svc, _, _ := newTestService([]*domain.Attendee{att}, []*domain.Room{room}, nil)

	result, err := svc.Validate(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("unassigned attendees alone do not invalidate an event")
	}
	if len(result.Suggestions) != 1 {
		t.Fatalf("expected one suggestion, got %v", result.Suggestions)
	}
}

func TestValidate_EventNotFound(t *testing.T) {
	svc, _, _ := newTestService(nil, nil, nil)
	if _, err := svc.Validate(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStatistics(t *testing.T) {
	rooms := []*domain.Room{
		testRoom("r1", 101, 2, domain.RoomGenderMale, false),
		testRoom("r2", 102, 2, domain.RoomGenderFemale, true),
	}
	buses := []*domain.Bus{
		{ID: "bus1", EventID: testEventID, Name: "North", Capacity: 40, GatheringArea: "Main Gate"},
	}
	a1 := testAttendee("a1", domain.GenderMale)
	a1.RoomID = strptr("r1")
	a1.BusID = strptr("bus1")
	a2 := testAttendee("a2", domain.GenderFemale)
	a2.IsElderly = true
	a3 := testAttendee("a3", domain.GenderMale)
	a3.RoomID = strptr("r1")
	svc, _, _ := newTestService([]*domain.Attendee{a1, a2, a3}, rooms, buses)

	stats, err := svc.Statistics(context.Background(), testEventID)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.TotalAttendees != 3 || stats.AssignedAttendees != 2 || stats.UnassignedAttendees != 1 {
		t.Fatalf("attendee counts wrong: %+v", stats)
	}
	if stats.TotalRooms != 2 || stats.TotalCapacity != 4 || stats.OccupiedBeds != 2 {
		t.Fatalf("room counts wrong: %+v", stats)
	}
	if stats.OccupancyRate != 0.5 {
		t.Fatalf("expected occupancy rate 0.5, got %v", stats.OccupancyRate)
	}
	if stats.GenderDistribution[domain.GenderMale] != 2 || stats.GenderDistribution[domain.GenderFemale] != 1 {
		t.Fatalf("gender distribution wrong: %+v", stats.GenderDistribution)
	}
	if stats.ElderlyCount != 1 {
		t.Fatalf("expected 1 elderly, got %d", stats.ElderlyCount)
	}
	if stats.BusCapacity != 40 || stats.BusPassengers != 1 {
		t.Fatalf("bus stats wrong: %+v", stats)
	}
	if stats.ConflictCount != 0 {
		t.Fatalf("expected no conflicts, got %d", stats.ConflictCount)
	}
}
