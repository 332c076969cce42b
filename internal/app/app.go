// Package app wires the availability core to its HTTP surface.
package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"meeting-scheduler/internal/availability"
	"meeting-scheduler/internal/cache"
	"meeting-scheduler/internal/calendar"
	"meeting-scheduler/internal/store"
	"meeting-scheduler/internal/timeutil"
)

// ErrNoAssignableMember means the round-robin ring was exhausted without a
// free member; the booking request must be rejected.
var ErrNoAssignableMember = errors.New("no team member available for the requested slot")

// Repository is the persistence surface the handlers depend on,
// implemented by *store.Store.
type Repository interface {
	GetSchedule(ctx context.Context, id string) (*store.Schedule, error)
	ListTeamMembers(ctx context.Context, scheduleID string) ([]store.TeamMember, error)
	ListConfirmedBookings(ctx context.Context, scheduleID string, from, to time.Time) ([]store.Booking, error)
	ListBookings(ctx context.Context, scheduleID string) ([]store.Booking, error)
	CancelBooking(ctx context.Context, id string) error
	GetCalendarToken(ctx context.Context, userID string) (*oauth2.Token, error)
	SaveCalendarToken(ctx context.Context, userID string, token *oauth2.Token) error
	BookWithAssignment(ctx context.Context, b *store.Booking, pick func(lastAssigned string) (string, error)) error
}

// App carries the explicitly constructed collaborators; nothing here is a
// package global.
type App struct {
	Repo    Repository
	Fetcher calendar.BusyFetcher
	Cache   *cache.SlotCache
	OAuth   *oauth2.Config
	Log     *zap.Logger
}

// slotResponse is the wire shape of one free slot.
type slotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toSlotResponses(slots []availability.Slot) []slotResponse {
	out := make([]slotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotResponse{
			Date:      s.Date.Format("2006-01-02"),
			StartTime: timeutil.ToTimeString(s.StartMin),
			EndTime:   timeutil.ToTimeString(s.EndMin),
		})
	}
	return out
}
