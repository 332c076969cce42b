package availability

import "time"

// Intersect returns the slots present in every input list, compared by exact
// (date, startTime, endTime) tuple. All parties share one SlotConfig, so
// boundaries align and tuple equality is the whole test. The result keeps
// the first list's ordering; as a set the operation is commutative and
// associative.
func Intersect(lists ...[]Slot) []Slot {
	if len(lists) == 0 {
		return nil
	}
	acc := lists[0]
	for _, other := range lists[1:] {
		keys := make(map[string]struct{}, len(other))
		for _, s := range other {
			keys[s.Key()] = struct{}{}
		}
		var kept []Slot
		for _, s := range acc {
			if _, ok := keys[s.Key()]; ok {
				kept = append(kept, s)
			}
		}
		acc = kept
	}
	return acc
}

// SubtractBookings removes slots whose tuple exactly matches a confirmed
// booking. Adjacent or abutting slots are untouched.
func SubtractBookings(slots []Slot, booked []Slot) []Slot {
	if len(booked) == 0 {
		return slots
	}
	keys := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		keys[b.Key()] = struct{}{}
	}
	var kept []Slot
	for _, s := range slots {
		if _, ok := keys[s.Key()]; !ok {
			kept = append(kept, s)
		}
	}
	return kept
}

// ComputeTeamAvailableSlots computes each member's free slots independently
// and intersects them: a slot survives only when every member is free. The
// caller must supply a complete perMemberBusy set; partial team data is not
// a valid input (fail closed at the fetch boundary, per ErrPartyUnavailable).
func ComputeTeamAvailableSlots(cfg SlotConfig, rangeStart, rangeEnd time.Time, perMemberBusy [][]BusyInterval, confirmed []Slot) ([]Slot, error) {
	if len(perMemberBusy) == 0 {
		return nil, ErrPartyUnavailable
	}
	lists := make([][]Slot, 0, len(perMemberBusy))
	for _, busy := range perMemberBusy {
		slots, err := ComputeAvailableSlots(cfg, rangeStart, rangeEnd, busy, nil)
		if err != nil {
			return nil, err
		}
		lists = append(lists, slots)
	}
	return SubtractBookings(Intersect(lists...), confirmed), nil
}
