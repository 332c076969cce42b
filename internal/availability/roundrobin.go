package availability

import "time"

// SelectNextAvailableMember walks the member ring starting after the last
// assigned member and returns the first one free for [start, end).
//
// members must be in join order; that ordering is the canonical ring. When
// lastAssignedID is empty or no longer in the ring, traversal starts at
// index 0. At most len(members) candidates are examined; ok is false when
// the ring exhausts without a free member, and the caller must reject the
// booking rather than assign anyone.
//
// busyByMember must hold an entry for every member; a failed busy fetch has
// to be rejected upstream (ErrPartyUnavailable), never passed in as an
// absent key, or the member would look fully free.
//
// The read-cursor, select, write-cursor sequence must run inside a critical
// section per schedule (the store owns that transaction); this function is
// the pure selection step.
func SelectNextAvailableMember(members []TeamMember, lastAssignedID string, start, end time.Time, busyByMember map[string][]BusyInterval) (TeamMember, bool) {
	n := len(members)
	if n == 0 {
		return TeamMember{}, false
	}

	startIdx := 0
	if lastAssignedID != "" {
		for i, m := range members {
			if m.ID == lastAssignedID {
				startIdx = (i + 1) % n
				break
			}
		}
	}

	for i := 0; i < n; i++ {
		m := members[(startIdx+i)%n]
		if IsMemberFree(busyByMember[m.ID], start, end) {
			return m, true
		}
	}
	return TeamMember{}, false
}
