package services

import (
	"context"
	"time"

	"eventlodging/internal/domain"
)

type roomUpdate struct {
	attendeeID string
	roomID     *string
}

type mockAttendeeRepository struct {
	attendees []*domain.Attendee
	err       error

	roomUpdates []roomUpdate
	busUpdates  []roomUpdate
}

func (m *mockAttendeeRepository) GetByID(ctx context.Context, id string) (*domain.Attendee, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.attendees {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockAttendeeRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Attendee
	for _, a := range m.attendees {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAttendeeRepository) UpdateRoomAssignment(ctx context.Context, attendeeID string, roomID *string) error {
	m.roomUpdates = append(m.roomUpdates, roomUpdate{attendeeID: attendeeID, roomID: roomID})
	for _, a := range m.attendees {
		if a.ID == attendeeID {
			a.RoomID = roomID
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockAttendeeRepository) UpdateBusAssignment(ctx context.Context, attendeeID string, busID *string) error {
	m.busUpdates = append(m.busUpdates, roomUpdate{attendeeID: attendeeID, roomID: busID})
	for _, a := range m.attendees {
		if a.ID == attendeeID {
			a.BusID = busID
			return nil
		}
	}
	return domain.ErrNotFound
}

type mockRoomRepository struct {
	rooms []*domain.Room
	err   error
}

func (m *mockRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, r := range m.rooms {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRoomRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Room, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rooms, nil
}

type mockBusRepository struct {
	buses []*domain.Bus
	err   error
}

func (m *mockBusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.buses {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockBusRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Bus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.buses, nil
}

type mockEventRepository struct {
	events map[string]*domain.Event
	err    error
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	ev, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

type mockNotifier struct {
	notified []string
}

func (m *mockNotifier) NotifyRoomAssigned(ctx context.Context, attendee *domain.Attendee, room *domain.Room) {
	m.notified = append(m.notified, attendee.ID)
}

const testEventID = "e1"

func newTestService(attendees []*domain.Attendee, rooms []*domain.Room, buses []*domain.Bus) (*assignmentService, *mockAttendeeRepository, *mockNotifier) {
	attRepo := &mockAttendeeRepository{attendees: attendees}
	notifier := &mockNotifier{}
	svc := &assignmentService{
		eventRepo:      &mockEventRepository{events: map[string]*domain.Event{testEventID: {ID: testEventID, Name: "Retreat"}}},
		attendeeRepo:   attRepo,
		roomRepo:       &mockRoomRepository{rooms: rooms},
		busRepo:        &mockBusRepository{buses: buses},
		notifier:       notifier,
		contextTimeout: time.Second,
	}
	return svc, attRepo, notifier
}

func testRoom(id string, number, capacity int, genderType domain.RoomGenderType, groundFloor bool) *domain.Room {
	return &domain.Room{
		ID:                    id,
		BuildingID:            "b1",
		Number:                number,
		Capacity:              capacity,
		GenderType:            genderType,
		Floor:                 1,
		IsGroundFloorSuitable: groundFloor,
		IsAvailable:           true,
	}
}

func testAttendee(id string, gender domain.Gender) *domain.Attendee {
	return &domain.Attendee{
		ID:               id,
		EventID:          testEventID,
		Name:             "Attendee",
		LastName:         id,
		Gender:           gender,
		RegistrationDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func familyPref(attendeeID, headID string) *domain.AttendeePreference {
	return &domain.AttendeePreference{
		AttendeeID:           attendeeID,
		IsFamily:             true,
		FamilyHeadAttendeeID: &headID,
	}
}

func roommatePref(attendeeID, preferredID string) *domain.AttendeePreference {
	return &domain.AttendeePreference{
		AttendeeID:          attendeeID,
		PreferredAttendeeID: &preferredID,
	}
}

func strptr(s string) *string { return &s }
