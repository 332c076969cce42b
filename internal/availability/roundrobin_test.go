package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-scheduler/internal/timeutil"
)

func testRing(n int) []TeamMember {
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	members := make([]TeamMember, n)
	for i := range members {
		members[i] = TeamMember{
			ID:       string(rune('a' + i)),
			UserID:   "user-" + string(rune('a'+i)),
			JoinedAt: joined.Add(time.Duration(i) * time.Hour),
		}
	}
	return members
}

func requestedWindow(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	day := mustDate(t, "2025-01-10")
	return timeutil.AtMinutes(day, 600, timeutil.DefaultOffset),
		timeutil.AtMinutes(day, 660, timeutil.DefaultOffset)
}

func TestSelectNextAvailableMember_Fairness(t *testing.T) {
	// With everyone free, N consecutive assignments visit each member
	// exactly once before repeating.
	members := testRing(4)
	start, end := requestedWindow(t)
	busy := map[string][]BusyInterval{"a": nil, "b": nil, "c": nil, "d": nil}

	cursor := ""
	var visited []string
	for i := 0; i < 8; i++ {
		m, ok := SelectNextAvailableMember(members, cursor, start, end, busy)
		require.True(t, ok)
		visited = append(visited, m.ID)
		cursor = m.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "a", "b", "c", "d"}, visited)
}

func TestSelectNextAvailableMember_StartsAfterCursor(t *testing.T) {
	members := testRing(3)
	start, end := requestedWindow(t)
	busy := map[string][]BusyInterval{"a": nil, "b": nil, "c": nil}

	m, ok := SelectNextAvailableMember(members, "b", start, end, busy)
	require.True(t, ok)
	assert.Equal(t, "c", m.ID)

	// Wraps past the end of the ring.
	m, ok = SelectNextAvailableMember(members, "c", start, end, busy)
	require.True(t, ok)
	assert.Equal(t, "a", m.ID)
}

func TestSelectNextAvailableMember_StaleCursorStartsAtZero(t *testing.T) {
	members := testRing(3)
	start, end := requestedWindow(t)
	busy := map[string][]BusyInterval{"a": nil, "b": nil, "c": nil}

	m, ok := SelectNextAvailableMember(members, "departed", start, end, busy)
	require.True(t, ok)
	assert.Equal(t, "a", m.ID)
}

func TestSelectNextAvailableMember_OnlyOneFree(t *testing.T) {
	members := testRing(4)
	start, end := requestedWindow(t)
	block := []BusyInterval{{Start: start, End: end}}

	// Only "c" is free; it must be found from any cursor position.
	busy := map[string][]BusyInterval{"a": block, "b": block, "c": nil, "d": block}
	for _, cursor := range []string{"", "a", "b", "c", "d"} {
		m, ok := SelectNextAvailableMember(members, cursor, start, end, busy)
		require.True(t, ok, "cursor %q", cursor)
		assert.Equal(t, "c", m.ID, "cursor %q", cursor)
	}
}

func TestSelectNextAvailableMember_RingExhausted(t *testing.T) {
	members := testRing(3)
	start, end := requestedWindow(t)
	block := []BusyInterval{{Start: start.Add(-time.Hour), End: end.Add(time.Hour)}}
	busy := map[string][]BusyInterval{"a": block, "b": block, "c": block}

	_, ok := SelectNextAvailableMember(members, "a", start, end, busy)
	assert.False(t, ok)
}

func TestSelectNextAvailableMember_NoMembers(t *testing.T) {
	start, end := requestedWindow(t)
	_, ok := SelectNextAvailableMember(nil, "", start, end, nil)
	assert.False(t, ok)
}
