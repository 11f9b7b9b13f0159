package services

import (
	"context"
	"fmt"
	"sort"

	"eventlodging/internal/domain"
)

// occupancyLedger is the request-scoped in-memory view of an event's rooms,
// buses, and their occupants. It is built once per assignment request and
// mutated only through apply/applyBus, so sequential batch items observe the
// commits of the items before them. There is no cross-request shared state;
// the authoritative state lives in the repositories.
type occupancyLedger struct {
	eventID string

	rooms     map[string]*domain.Room
	roomOrder []*domain.Room
	attendees map[string]*domain.Attendee
	occupants map[string][]*domain.Attendee
	location  map[string]string

	buses       map[string]*domain.Bus
	passengers  map[string][]*domain.Attendee
	busLocation map[string]string
}

func buildLedger(
	ctx context.Context,
	eventID string,
	attendeeRepo domain.AttendeeRepository,
	roomRepo domain.RoomRepository,
	busRepo domain.BusRepository,
) (*occupancyLedger, error) {
	rooms, err := roomRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	attendees, err := attendeeRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	buses, err := busRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list buses: %w", err)
	}

	led := &occupancyLedger{
		eventID:     eventID,
		rooms:       make(map[string]*domain.Room, len(rooms)),
		roomOrder:   rooms,
		attendees:   make(map[string]*domain.Attendee, len(attendees)),
		occupants:   make(map[string][]*domain.Attendee),
		location:    make(map[string]string),
		buses:       make(map[string]*domain.Bus, len(buses)),
		passengers:  make(map[string][]*domain.Attendee),
		busLocation: make(map[string]string),
	}
	for _, r := range rooms {
		led.rooms[r.ID] = r
	}
	for _, b := range buses {
		led.buses[b.ID] = b
	}
	for _, a := range attendees {
		led.attendees[a.ID] = a
		if a.RoomID != nil {
			led.occupants[*a.RoomID] = append(led.occupants[*a.RoomID], a)
			led.location[a.ID] = *a.RoomID
		}
		if a.BusID != nil {
			led.passengers[*a.BusID] = append(led.passengers[*a.BusID], a)
			led.busLocation[a.ID] = *a.BusID
		}
	}
	return led, nil
}

func (l *occupancyLedger) room(id string) (*domain.Room, bool) {
	r, ok := l.rooms[id]
	return r, ok
}

func (l *occupancyLedger) attendee(id string) (*domain.Attendee, bool) {
	a, ok := l.attendees[id]
	return a, ok
}

func (l *occupancyLedger) bus(id string) (*domain.Bus, bool) {
	b, ok := l.buses[id]
	return b, ok
}

func (l *occupancyLedger) occupantsOf(roomID string) []*domain.Attendee {
	return l.occupants[roomID]
}

// locate returns the room the attendee currently occupies, if any.
func (l *occupancyLedger) locate(attendeeID string) (string, bool) {
	id, ok := l.location[attendeeID]
	return id, ok
}

func (l *occupancyLedger) freeCapacity(roomID string) int {
	r, ok := l.rooms[roomID]
	if !ok {
		return 0
	}
	return r.Capacity - len(l.occupants[roomID])
}

func (l *occupancyLedger) busFreeCapacity(busID string) int {
	b, ok := l.buses[busID]
	if !ok {
		return 0
	}
	return b.Capacity - len(l.passengers[busID])
}

// roomsWithFreeCapacity returns available rooms with at least one free slot,
// in event order (building, then room number), optionally filtered by gender
// type and ground-floor suitability.
func (l *occupancyLedger) roomsWithFreeCapacity(genderType *domain.RoomGenderType, groundFloorOnly bool) []*domain.Room {
	var out []*domain.Room
	for _, r := range l.roomOrder {
		if !r.IsAvailable || l.freeCapacity(r.ID) <= 0 {
			continue
		}
		if genderType != nil && r.GenderType != *genderType {
			continue
		}
		if groundFloorOnly && !r.IsGroundFloorSuitable {
			continue
		}
		out = append(out, r)
	}
	return out
}

// genderCompatible reports whether a single attendee of gender g may occupy
// the room under the hard gender rule. Mixed and family rooms accept anyone.
func genderCompatible(room *domain.Room, g domain.Gender) bool {
	switch room.GenderType {
	case domain.RoomGenderMale:
		return g == domain.GenderMale
	case domain.RoomGenderFemale:
		return g == domain.GenderFemale
	default:
		return true
	}
}

// groundFloorAlternativeExists reports whether some other room could host the
// attendee on a ground-floor-suitable floor: available, free capacity, and
// gender-compatible. Used by the elderly placement rule.
func (l *occupancyLedger) groundFloorAlternativeExists(att *domain.Attendee, excludingRoomID string) bool {
	for _, r := range l.roomOrder {
		if r.ID == excludingRoomID || !r.IsAvailable || !r.IsGroundFloorSuitable {
			continue
		}
		if l.freeCapacity(r.ID) <= 0 || !genderCompatible(r, att.Gender) {
			continue
		}
		return true
	}
	return false
}

// apply moves the attendee in the in-memory view: out of the prior room's
// occupant set, into the new one (nil roomID unassigns). The capacity
// invariant is the caller's responsibility; apply only records the move.
func (l *occupancyLedger) apply(attendeeID string, roomID *string) {
	att, ok := l.attendees[attendeeID]
	if !ok {
		return
	}
	if prior, assigned := l.location[attendeeID]; assigned {
		l.occupants[prior] = removeAttendee(l.occupants[prior], attendeeID)
		delete(l.location, attendeeID)
	}
	att.RoomID = roomID
	if roomID != nil {
		l.occupants[*roomID] = append(l.occupants[*roomID], att)
		l.location[attendeeID] = *roomID
	}
}

func (l *occupancyLedger) applyBus(attendeeID string, busID *string) {
	att, ok := l.attendees[attendeeID]
	if !ok {
		return
	}
	if prior, assigned := l.busLocation[attendeeID]; assigned {
		l.passengers[prior] = removeAttendee(l.passengers[prior], attendeeID)
		delete(l.busLocation, attendeeID)
	}
	att.BusID = busID
	if busID != nil {
		l.passengers[*busID] = append(l.passengers[*busID], att)
		l.busLocation[attendeeID] = *busID
	}
}

func removeAttendee(list []*domain.Attendee, id string) []*domain.Attendee {
	for i, a := range list {
		if a.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// unassignedAttendees returns attendees without a room, sorted by ID for
// deterministic iteration.
func (l *occupancyLedger) unassignedAttendees() []*domain.Attendee {
	var out []*domain.Attendee
	for _, a := range l.attendees {
		if a.RoomID == nil {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
