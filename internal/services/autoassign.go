package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"eventlodging/internal/domain"
)

// assignmentGroup is a clique of attendees transitively linked by family or
// preference hints, placed as a unit when a room can hold all of them.
type assignmentGroup struct {
	members       []*domain.Attendee
	hasElderly    bool
	hasFamilyLink bool
	mixedGender   bool
	earliestReg   time.Time
	minID         string
}

// AutoAssign greedily places every currently unassigned attendee of the
// event. Greedy with priority ordering is deliberate: the search space is
// combinatorial, and a locally suboptimal placement is cheap to correct by
// hand, so no claim of global optimality is made. The pass never commits a
// capacity or hard gender violation.
func (s *assignmentService) AutoAssign(ctx context.Context, eventID string, overrideWarnings bool) (*domain.AssignmentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	led, err := s.eventLedger(ctx, eventID)
	if err != nil {
		return nil, err
	}

	unassigned := led.unassignedAttendees()
	groups, familyHead := resolveCliques(unassigned)
	orderGroups(groups)

	result := &domain.AssignmentResult{
		Assignments: []domain.RoomAssignment{},
		Conflicts:   []domain.AssignmentConflict{},
	}
	for _, g := range groups {
		if err := s.placeGroup(ctx, led, g, familyHead, overrideWarnings, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveCliques partitions attendees into groups connected by family or
// preference links. The preference graph may be cyclic (A prefers B, B
// prefers A), so connectivity is resolved with union-find rather than graph
// walking. Links to assigned or unknown attendees are ignored here; the
// evaluator surfaces those as preference warnings at commit time. The second
// return value maps an attendee to its family head within the pool.
func resolveCliques(attendees []*domain.Attendee) ([]*assignmentGroup, map[string]string) {
	index := make(map[string]int, len(attendees))
	for i, a := range attendees {
		index[a.ID] = i
	}
	parent := make([]int, len(attendees))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	familyHead := make(map[string]string)
	for i, a := range attendees {
		for _, pref := range a.Preferences {
			if pref.PreferredAttendeeID != nil {
				if j, ok := index[*pref.PreferredAttendeeID]; ok && j != i {
					union(i, j)
				}
			}
			if pref.IsFamily && pref.FamilyHeadAttendeeID != nil {
				if j, ok := index[*pref.FamilyHeadAttendeeID]; ok && j != i {
					union(i, j)
					familyHead[a.ID] = *pref.FamilyHeadAttendeeID
				}
			}
		}
	}

	byRoot := make(map[int]*assignmentGroup)
	var groups []*assignmentGroup
	for i, a := range attendees {
		root := find(i)
		g, ok := byRoot[root]
		if !ok {
			g = &assignmentGroup{earliestReg: a.RegistrationDate, minID: a.ID}
			byRoot[root] = g
			groups = append(groups, g)
		}
		g.members = append(g.members, a)
		if a.IsElderly {
			g.hasElderly = true
		}
		if _, fam := familyHead[a.ID]; fam {
			g.hasFamilyLink = true
		}
		if a.RegistrationDate.Before(g.earliestReg) {
			g.earliestReg = a.RegistrationDate
		}
		if a.ID < g.minID {
			g.minID = a.ID
		}
	}
	for _, g := range groups {
		genders := make(map[domain.Gender]struct{})
		for _, m := range g.members {
			genders[m.Gender] = struct{}{}
		}
		g.mixedGender = len(genders) > 1
		sort.Slice(g.members, func(i, j int) bool {
			if !g.members[i].RegistrationDate.Equal(g.members[j].RegistrationDate) {
				return g.members[i].RegistrationDate.Before(g.members[j].RegistrationDate)
			}
			return g.members[i].ID < g.members[j].ID
		})
	}
	return groups, familyHead
}

// orderGroups sorts placement order: larger groups first, then groups with
// elderly members (to claim ground-floor rooms while available), then by
// earliest registration, with the smallest member ID as final tie-break so
// runs are reproducible.
func orderGroups(groups []*assignmentGroup) {
	sort.Slice(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if len(a.members) != len(b.members) {
			return len(a.members) > len(b.members)
		}
		if a.hasElderly != b.hasElderly {
			return a.hasElderly
		}
		if !a.earliestReg.Equal(b.earliestReg) {
			return a.earliestReg.Before(b.earliestReg)
		}
		return a.minID < b.minID
	})
}

// compatibleRoomTypes returns the room gender types a group may occupy.
// A mixed-gender family group fits only family rooms.
func compatibleRoomTypes(mixedGender, hasFamilyLink bool, gender domain.Gender) []domain.RoomGenderType {
	if mixedGender && hasFamilyLink {
		return []domain.RoomGenderType{domain.RoomGenderFamily}
	}
	if mixedGender {
		return []domain.RoomGenderType{domain.RoomGenderMixed, domain.RoomGenderFamily}
	}
	var own domain.RoomGenderType
	if gender == domain.GenderFemale {
		own = domain.RoomGenderFemale
	} else {
		own = domain.RoomGenderMale
	}
	return []domain.RoomGenderType{own, domain.RoomGenderMixed, domain.RoomGenderFamily}
}

// findRoom picks the smallest room that can hold size more occupants among
// the allowed gender types, preferring ground-floor-suitable rooms when asked.
// Ties break on total capacity, then lowest room number.
func (l *occupancyLedger) findRoom(types []domain.RoomGenderType, size int, preferGroundFloor bool, alsoHolding map[string]struct{}) *domain.Room {
	allowed := make(map[domain.RoomGenderType]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	var candidates []*domain.Room
	for _, r := range l.roomOrder {
		if !r.IsAvailable || l.freeCapacity(r.ID) < size {
			continue
		}
		if _, ok := allowed[r.GenderType]; !ok {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil
	}
	holds := func(r *domain.Room) bool {
		for _, occ := range l.occupantsOf(r.ID) {
			if _, ok := alsoHolding[occ.ID]; ok {
				return true
			}
		}
		return false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if alsoHolding != nil {
			ha, hb := holds(a), holds(b)
			if ha != hb {
				return ha
			}
		}
		if preferGroundFloor && a.IsGroundFloorSuitable != b.IsGroundFloorSuitable {
			return a.IsGroundFloorSuitable
		}
		fa, fb := l.freeCapacity(a.ID), l.freeCapacity(b.ID)
		if fa != fb {
			return fa < fb
		}
		if a.Capacity != b.Capacity {
			return a.Capacity < b.Capacity
		}
		return a.Number < b.Number
	})
	return candidates[0]
}

// placeGroup places one group: whole-group into a single room when possible,
// otherwise split by family unit, then per attendee. Placements commit
// through the same per-item rules as bulk assignment, so warnings still
// reject when overrideWarnings is false.
func (s *assignmentService) placeGroup(ctx context.Context, led *occupancyLedger, g *assignmentGroup, familyHead map[string]string, overrideWarnings bool, result *domain.AssignmentResult) error {
	types := compatibleRoomTypes(g.mixedGender, g.hasFamilyLink, g.members[0].Gender)
	if room := led.findRoom(types, len(g.members), g.hasElderly, nil); room != nil {
		for _, m := range g.members {
			item := domain.AssignmentItem{AttendeeID: m.ID, RoomID: room.ID}
			if err := s.commitItem(ctx, led, item, overrideWarnings, result); err != nil {
				return err
			}
		}
		return nil
	}

	// No single room fits. Family units (head plus attendees linked to that
	// head) are kept together ahead of plain preference links.
	units, singles := splitByFamilyUnit(g, familyHead)
	for _, unit := range units {
		placed := false
		if len(unit) > 1 {
			mixed := unitMixedGender(unit)
			unitTypes := compatibleRoomTypes(mixed, true, unit[0].Gender)
			if room := led.findRoom(unitTypes, len(unit), hasElderly(unit), nil); room != nil {
				for _, m := range unit {
					item := domain.AssignmentItem{AttendeeID: m.ID, RoomID: room.ID}
					if err := s.commitItem(ctx, led, item, overrideWarnings, result); err != nil {
						return err
					}
				}
				placed = true
			}
		}
		if !placed {
			singles = append(singles, unit...)
		}
	}

	groupIDs := make(map[string]struct{}, len(g.members))
	for _, m := range g.members {
		groupIDs[m.ID] = struct{}{}
	}
	for _, m := range singles {
		types := compatibleRoomTypes(false, false, m.Gender)
		room := led.findRoom(types, 1, m.IsElderly, groupIDs)
		if room == nil {
			result.TotalUnassigned++
			result.Conflicts = append(result.Conflicts, domain.AssignmentConflict{
				Type:       domain.ConflictCapacityExceeded,
				Severity:   domain.SeverityError,
				AttendeeID: m.ID,
				Message:    fmt.Sprintf("no compatible room with free capacity for %s %s", m.Name, m.LastName),
			})
			continue
		}
		item := domain.AssignmentItem{AttendeeID: m.ID, RoomID: room.ID}
		if err := s.commitItem(ctx, led, item, overrideWarnings, result); err != nil {
			return err
		}
	}
	return nil
}

// splitByFamilyUnit groups members around their family head. Members without
// a family link in the pool are returned as singles.
func splitByFamilyUnit(g *assignmentGroup, familyHead map[string]string) ([][]*domain.Attendee, []*domain.Attendee) {
	byHead := make(map[string][]*domain.Attendee)
	var singles []*domain.Attendee
	inGroup := make(map[string]*domain.Attendee, len(g.members))
	for _, m := range g.members {
		inGroup[m.ID] = m
	}
	claimed := make(map[string]struct{})
	for _, m := range g.members {
		head, ok := familyHead[m.ID]
		if !ok {
			continue
		}
		if _, present := inGroup[head]; !present {
			continue
		}
		byHead[head] = append(byHead[head], m)
		claimed[m.ID] = struct{}{}
		claimed[head] = struct{}{}
	}
	var heads []string
	for head := range byHead {
		heads = append(heads, head)
	}
	sort.Strings(heads)
	units := make([][]*domain.Attendee, 0, len(heads))
	for _, head := range heads {
		unit := append([]*domain.Attendee{inGroup[head]}, byHead[head]...)
		units = append(units, unit)
	}
	for _, m := range g.members {
		if _, ok := claimed[m.ID]; !ok {
			singles = append(singles, m)
		}
	}
	return units, singles
}

func unitMixedGender(unit []*domain.Attendee) bool {
	for _, m := range unit[1:] {
		if m.Gender != unit[0].Gender {
			return true
		}
	}
	return false
}

func hasElderly(unit []*domain.Attendee) bool {
	for _, m := range unit {
		if m.IsElderly {
			return true
		}
	}
	return false
}
