package availability

import "time"

// GenerateDaySlots expands one calendar date into candidate slots.
//
// A cursor walks from WorkingStart in back-to-back SlotDuration steps; slots
// are packed, not aligned to wall-clock boundaries, so a 90-minute duration
// from 09:00 yields 09:00, 10:30, 12:00. A slot overlapping the break window
// under half-open semantics ([cursor, end) vs [BreakStart, BreakEnd)) is not
// emitted and the cursor jumps straight to BreakEnd. Touching a break
// boundary exactly does not count as overlap.
func GenerateDaySlots(date time.Time, cfg SlotConfig) []Slot {
	var slots []Slot
	cursor := cfg.WorkingStart
	for cursor+cfg.SlotDuration <= cfg.WorkingEnd {
		slotEnd := cursor + cfg.SlotDuration
		if cfg.HasBreak && cursor < cfg.BreakEnd && slotEnd > cfg.BreakStart {
			cursor = cfg.BreakEnd
			continue
		}
		slots = append(slots, Slot{Date: date, StartMin: cursor, EndMin: slotEnd})
		cursor = slotEnd
	}
	return slots
}
