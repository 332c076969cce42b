package availability

import (
	"time"

	"meeting-scheduler/internal/timeutil"
)

// ComputeAvailableSlots returns the free slots between rangeStart and
// rangeEnd (inclusive calendar dates) after removing every candidate that
// overlaps a busy interval, then subtracting confirmed bookings by exact
// tuple. Output is date-major then time-major; a valid computation with no
// free slots returns an empty list, not an error.
func ComputeAvailableSlots(cfg SlotConfig, rangeStart, rangeEnd time.Time, busy []BusyInterval, confirmed []Slot) ([]Slot, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var free []Slot
	for _, date := range timeutil.DatesBetween(rangeStart, rangeEnd) {
		if !cfg.AllowsWeekday(date.Weekday()) {
			continue
		}
		dayStart, dayEnd := timeutil.DayBounds(date, cfg.Offset)
		dayBusy := selectDayBusy(busy, dayStart, dayEnd)

		for _, slot := range GenerateDaySlots(date, cfg) {
			start, end := slot.Interval(cfg.Offset)
			if !overlapsAny(start, end, dayBusy) {
				free = append(free, slot)
			}
		}
	}
	return SubtractBookings(free, confirmed), nil
}

// selectDayBusy keeps intervals touching the day window: starting inside,
// ending inside, or spanning across it.
func selectDayBusy(busy []BusyInterval, dayStart, dayEnd time.Time) []BusyInterval {
	var out []BusyInterval
	for _, b := range busy {
		startsInside := !b.Start.Before(dayStart) && !b.Start.After(dayEnd)
		endsInside := !b.End.Before(dayStart) && !b.End.After(dayEnd)
		spans := b.Start.Before(dayStart) && b.End.After(dayEnd)
		if startsInside || endsInside || spans {
			out = append(out, b)
		}
	}
	return out
}

// overlaps reports whether [start, end) collides with one busy interval:
// start falls in [b.Start, b.End), end falls in (b.Start, b.End], or the
// slot fully contains the busy period.
func overlaps(start, end time.Time, b BusyInterval) bool {
	startInside := !start.Before(b.Start) && start.Before(b.End)
	endInside := end.After(b.Start) && !end.After(b.End)
	contains := !b.Start.Before(start) && !b.End.After(end)
	return startInside || endInside || contains
}

func overlapsAny(start, end time.Time, busy []BusyInterval) bool {
	for _, b := range busy {
		if overlaps(start, end, b) {
			return true
		}
	}
	return false
}

// IsMemberFree reports whether no busy interval collides with the requested
// [start, end) window. This is the single-interval form of the slot filter,
// used by round-robin assignment.
func IsMemberFree(busy []BusyInterval, start, end time.Time) bool {
	return !overlapsAny(start, end, busy)
}
