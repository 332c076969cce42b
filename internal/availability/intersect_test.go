package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(slots []Slot) map[string]struct{} {
	out := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		out[s.Key()] = struct{}{}
	}
	return out
}

func TestIntersect_TwoMemberTeamExample(t *testing.T) {
	// Member A busy 14:00-15:00, member B busy 09:00-12:00, working hours
	// 09:00-18:00, 60-minute slots, no break. A slot survives only when
	// neither member holds it: 12:00-14:00 plus everything after 15:00.
	cfg := mustConfig(t, "09:00", "18:00", "", "", 60)
	day := mustDate(t, "2025-01-10")

	busyA := []BusyInterval{busyAt(t, "2025-01-10", 840, 900)}
	busyB := []BusyInterval{busyAt(t, "2025-01-10", 540, 720)}

	slotsA, err := ComputeAvailableSlots(cfg, day, day, busyA, nil)
	require.NoError(t, err)
	slotsB, err := ComputeAvailableSlots(cfg, day, day, busyB, nil)
	require.NoError(t, err)

	got := Intersect(slotsA, slotsB)
	assert.Equal(t, []string{
		"12:00-13:00", "13:00-14:00", "15:00-16:00", "16:00-17:00", "17:00-18:00",
	}, slotTimes(got))
}

func TestIntersect_CommutativeAssociative(t *testing.T) {
	cfg := mustConfig(t, "09:00", "18:00", "", "", 60)
	day := mustDate(t, "2025-01-10")

	a, err := ComputeAvailableSlots(cfg, day, day, []BusyInterval{busyAt(t, "2025-01-10", 540, 600)}, nil)
	require.NoError(t, err)
	b, err := ComputeAvailableSlots(cfg, day, day, []BusyInterval{busyAt(t, "2025-01-10", 720, 780)}, nil)
	require.NoError(t, err)
	c, err := ComputeAvailableSlots(cfg, day, day, []BusyInterval{busyAt(t, "2025-01-10", 960, 1020)}, nil)
	require.NoError(t, err)

	abc := Intersect(a, b, c)
	cba := Intersect(c, b, a)
	nested := Intersect(Intersect(a, b), c)

	assert.Equal(t, keys(abc), keys(cba))
	assert.Equal(t, keys(abc), keys(nested))
}

func TestIntersect_EmptyInputs(t *testing.T) {
	assert.Nil(t, Intersect())

	cfg := mustConfig(t, "09:00", "11:00", "", "", 60)
	day := mustDate(t, "2025-01-10")
	a, err := ComputeAvailableSlots(cfg, day, day, nil, nil)
	require.NoError(t, err)

	assert.Empty(t, Intersect(a, nil))
}

func TestSubtractBookings_ExactMatchOnly(t *testing.T) {
	cfg := mustConfig(t, "09:00", "11:00", "", "", 30)
	day := mustDate(t, "2025-01-10")
	slots, err := ComputeAvailableSlots(cfg, day, day, nil, nil)
	require.NoError(t, err)
	require.Len(t, slots, 4)

	// Booking 09:00-09:30 removes exactly that slot, not the abutting one.
	booked := []Slot{{Date: day, StartMin: 540, EndMin: 570}}
	got := SubtractBookings(slots, booked)
	assert.Equal(t, []string{"09:30-10:00", "10:00-10:30", "10:30-11:00"}, slotTimes(got))

	// A booking of a different duration at the same start removes nothing.
	booked = []Slot{{Date: day, StartMin: 540, EndMin: 600}}
	assert.Len(t, SubtractBookings(slots, booked), 4)

	// Same time on another date removes nothing.
	booked = []Slot{{Date: mustDate(t, "2025-01-11"), StartMin: 540, EndMin: 570}}
	assert.Len(t, SubtractBookings(slots, booked), 4)
}

func TestComputeTeamAvailableSlots(t *testing.T) {
	cfg := mustConfig(t, "09:00", "18:00", "", "", 60)
	day := mustDate(t, "2025-01-10")

	perMember := [][]BusyInterval{
		{busyAt(t, "2025-01-10", 840, 900)}, // A: 14:00-15:00
		{busyAt(t, "2025-01-10", 540, 720)}, // B: 09:00-12:00
	}

	got, err := ComputeTeamAvailableSlots(cfg, day, day, perMember, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"12:00-13:00", "13:00-14:00", "15:00-16:00", "16:00-17:00", "17:00-18:00",
	}, slotTimes(got))

	// Confirmed booking subtraction applies after the intersection.
	confirmed := []Slot{{Date: day, StartMin: 720, EndMin: 780}}
	got, err = ComputeTeamAvailableSlots(cfg, day, day, perMember, confirmed)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"13:00-14:00", "15:00-16:00", "16:00-17:00", "17:00-18:00",
	}, slotTimes(got))
}

func TestComputeTeamAvailableSlots_NoParties(t *testing.T) {
	cfg := mustConfig(t, "09:00", "18:00", "", "", 60)
	day := mustDate(t, "2025-01-10")

	_, err := ComputeTeamAvailableSlots(cfg, day, day, nil, nil)
	assert.ErrorIs(t, err, ErrPartyUnavailable)
}
