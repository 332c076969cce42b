package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meeting-scheduler/internal/timeutil"
)

func TestScheduleSlotConfig(t *testing.T) {
	sch := &Schedule{
		WorkingStart:     "09:00",
		WorkingEnd:       "18:00",
		BreakStart:       "12:00",
		BreakEnd:         "13:00",
		SlotDurationMins: 60,
		OffsetMinutes:    9 * 60,
	}
	cfg, err := sch.SlotConfig()
	require.NoError(t, err)
	assert.Equal(t, 540, cfg.WorkingStart)
	assert.Equal(t, 1080, cfg.WorkingEnd)
	assert.True(t, cfg.HasBreak)
	assert.Equal(t, timeutil.DefaultOffset, cfg.Offset)

	_, offset := time.Now().In(cfg.Offset).Zone()
	assert.Equal(t, 9*3600, offset)
}

func TestScheduleSlotConfig_NoBreak(t *testing.T) {
	sch := &Schedule{
		WorkingStart:     "09:00",
		WorkingEnd:       "17:00",
		SlotDurationMins: 30,
		OffsetMinutes:    9 * 60,
	}
	cfg, err := sch.SlotConfig()
	require.NoError(t, err)
	assert.False(t, cfg.HasBreak)
}

func TestScheduleSlotConfig_CustomOffset(t *testing.T) {
	sch := &Schedule{
		WorkingStart:     "09:00",
		WorkingEnd:       "17:00",
		SlotDurationMins: 30,
		OffsetMinutes:    -5 * 60,
	}
	cfg, err := sch.SlotConfig()
	require.NoError(t, err)

	_, offset := time.Now().In(cfg.Offset).Zone()
	assert.Equal(t, -5*3600, offset)
}

func TestBookingSlot_DateRebuiltInOffset(t *testing.T) {
	// Dates scanned from the DB arrive as UTC midnight; the slot tuple must
	// still key the same as a freshly generated slot in the schedule zone.
	b := &Booking{
		Date:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		StartMin: 540,
		EndMin:   600,
	}
	slot := b.Slot(timeutil.DefaultOffset)
	assert.Equal(t, "2025-01-10|540|600", slot.Key())
}

func TestRing_PreservesOrder(t *testing.T) {
	joined := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	members := []TeamMember{
		{ID: "m-a", UserID: "alice", JoinedAt: joined},
		{ID: "m-b", UserID: "bob", JoinedAt: joined.Add(time.Hour)},
	}
	ring := Ring(members)
	require.Len(t, ring, 2)
	assert.Equal(t, "m-a", ring[0].ID)
	assert.Equal(t, "bob", ring[1].UserID)
}
