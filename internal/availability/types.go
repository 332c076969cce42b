// Package availability computes free, bookable meeting slots from busy
// calendar intervals, and picks round-robin assignees for team schedules.
package availability

import (
	"errors"
	"fmt"
	"time"

	"meeting-scheduler/internal/timeutil"
)

// ErrPartyUnavailable signals that a party's busy intervals could not be
// obtained (missing or unrefreshable credential, fetch failure). The caller
// must treat the whole intersection as unavailable, never as fully free.
var ErrPartyUnavailable = errors.New("party availability unknown")

// BusyInterval is one occupied period on a calendar, in absolute time.
// Intervals may overlap each other; no dedup is guaranteed or required.
type BusyInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotConfig describes how candidate slots are cut out of a working day.
// All wall-clock minutes are interpreted in Offset, never the system zone.
type SlotConfig struct {
	WorkingStart int
	WorkingEnd   int
	BreakStart   int
	BreakEnd     int
	HasBreak     bool
	SlotDuration int
	Offset       *time.Location

	// WeekdayMask restricts bookable days: bit w set means time.Weekday(w)
	// is allowed. Zero means every day is allowed.
	WeekdayMask int
}

// AllowsWeekday reports whether the config offers slots on that weekday.
func (c SlotConfig) AllowsWeekday(w time.Weekday) bool {
	return c.WeekdayMask == 0 || c.WeekdayMask&(1<<uint(w)) != 0
}

// NewSlotConfig parses "HH:MM" window bounds into a validated SlotConfig.
// breakStart and breakEnd may both be empty for schedules without a break.
func NewSlotConfig(workingStart, workingEnd, breakStart, breakEnd string, durationMins int, offset *time.Location) (SlotConfig, error) {
	cfg := SlotConfig{SlotDuration: durationMins, Offset: offset}
	if cfg.Offset == nil {
		cfg.Offset = timeutil.DefaultOffset
	}

	var err error
	if cfg.WorkingStart, err = timeutil.ToMinutes(workingStart); err != nil {
		return SlotConfig{}, fmt.Errorf("working start: %w", err)
	}
	if cfg.WorkingEnd, err = timeutil.ToMinutes(workingEnd); err != nil {
		return SlotConfig{}, fmt.Errorf("working end: %w", err)
	}
	if breakStart != "" || breakEnd != "" {
		cfg.HasBreak = true
		if cfg.BreakStart, err = timeutil.ToMinutes(breakStart); err != nil {
			return SlotConfig{}, fmt.Errorf("break start: %w", err)
		}
		if cfg.BreakEnd, err = timeutil.ToMinutes(breakEnd); err != nil {
			return SlotConfig{}, fmt.Errorf("break end: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return SlotConfig{}, err
	}
	return cfg, nil
}

// Validate checks the window invariants.
func (c SlotConfig) Validate() error {
	if c.SlotDuration <= 0 {
		return fmt.Errorf("slot duration must be positive, got %d", c.SlotDuration)
	}
	if c.WorkingStart >= c.WorkingEnd {
		return fmt.Errorf("working start %s must precede working end %s",
			timeutil.ToTimeString(c.WorkingStart), timeutil.ToTimeString(c.WorkingEnd))
	}
	if c.HasBreak && c.BreakStart >= c.BreakEnd {
		return fmt.Errorf("break start %s must precede break end %s",
			timeutil.ToTimeString(c.BreakStart), timeutil.ToTimeString(c.BreakEnd))
	}
	if c.Offset == nil {
		return errors.New("offset is required")
	}
	return nil
}

// Slot is a fixed-duration candidate meeting interval on one calendar date.
// Slots are generated fresh on every query and never persisted.
type Slot struct {
	Date     time.Time `json:"date"`
	StartMin int       `json:"start_min"`
	EndMin   int       `json:"end_min"`
}

// Interval returns the slot's absolute [start, end) pair in loc.
func (s Slot) Interval(loc *time.Location) (time.Time, time.Time) {
	return timeutil.AtMinutes(s.Date, s.StartMin, loc), timeutil.AtMinutes(s.Date, s.EndMin, loc)
}

// Key is the exact (date, startTime, endTime) tuple identity used for
// intersection and booking subtraction.
func (s Slot) Key() string {
	return fmt.Sprintf("%s|%d|%d", s.Date.Format("2006-01-02"), s.StartMin, s.EndMin)
}

// TeamMember is one entry in a schedule's round-robin ring. Callers supply
// members ordered by join time ascending; that ordering is the ring.
type TeamMember struct {
	ID       string
	UserID   string
	JoinedAt time.Time
}
