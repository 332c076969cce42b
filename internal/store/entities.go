package store

import (
	"time"

	"meeting-scheduler/internal/availability"
	"meeting-scheduler/internal/timeutil"
)

// Schedule is one bookable meeting configuration owned by a host user.
// Wall-clock bounds are stored as "HH:MM" strings and validated on the way
// into a SlotConfig, not at rest.
type Schedule struct {
	ID               string    `json:"id"`
	OwnerUserID      string    `json:"owner_user_id"`
	Title            string    `json:"title,omitempty"`
	WorkingStart     string    `json:"working_start"`
	WorkingEnd       string    `json:"working_end"`
	BreakStart       string    `json:"break_start,omitempty"`
	BreakEnd         string    `json:"break_end,omitempty"`
	SlotDurationMins int       `json:"slot_duration_minutes"`
	OffsetMinutes    int       `json:"offset_minutes"`
	WeekdayMask      int       `json:"weekday_mask,omitempty"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// SlotConfig builds the validated availability configuration for the
// schedule, in its fixed offset.
func (s *Schedule) SlotConfig() (availability.SlotConfig, error) {
	loc := timeutil.DefaultOffset
	if s.OffsetMinutes != 9*60 {
		loc = time.FixedZone("offset", s.OffsetMinutes*60)
	}
	cfg, err := availability.NewSlotConfig(s.WorkingStart, s.WorkingEnd, s.BreakStart, s.BreakEnd, s.SlotDurationMins, loc)
	if err != nil {
		return availability.SlotConfig{}, err
	}
	cfg.WeekdayMask = s.WeekdayMask
	return cfg, nil
}

// TeamMember is one member row; join order is the round-robin ring order.
type TeamMember struct {
	ID         string    `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

// Ring converts member rows to the selector's input, preserving order.
func Ring(members []TeamMember) []availability.TeamMember {
	out := make([]availability.TeamMember, len(members))
	for i, m := range members {
		out[i] = availability.TeamMember{ID: m.ID, UserID: m.UserID, JoinedAt: m.JoinedAt}
	}
	return out
}

// Booking is a guest reservation of one slot. Confirmed bookings are
// subtracted from computed availability as a busy-equivalent set.
type Booking struct {
	ID               string    `json:"id"`
	ScheduleID       string    `json:"schedule_id"`
	AssignedMemberID string    `json:"assigned_member_id,omitempty"`
	GuestEmail       string    `json:"guest_email"`
	Date             time.Time `json:"date"`
	StartMin         int       `json:"start_min"`
	EndMin           int       `json:"end_min"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
}

// Slot returns the booking's exact slot tuple with its date rebuilt in loc,
// so tuple keys line up with freshly generated slots.
func (b *Booking) Slot(loc *time.Location) availability.Slot {
	y, m, d := b.Date.Date()
	return availability.Slot{
		Date:     time.Date(y, m, d, 0, 0, 0, 0, loc),
		StartMin: b.StartMin,
		EndMin:   b.EndMin,
	}
}

// BookingSlots converts confirmed booking rows to slot tuples.
func BookingSlots(bookings []Booking, loc *time.Location) []availability.Slot {
	out := make([]availability.Slot, 0, len(bookings))
	for i := range bookings {
		out = append(out, bookings[i].Slot(loc))
	}
	return out
}
