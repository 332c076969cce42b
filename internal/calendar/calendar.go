// Package calendar fetches busy intervals from Google Calendar.
package calendar

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"meeting-scheduler/internal/availability"
)

// BusyFetcher supplies busy intervals for one calendar account over a range.
// The core treats the result as opaque input.
type BusyFetcher interface {
	FetchBusyIntervals(ctx context.Context, token *oauth2.Token, from, to time.Time) ([]availability.BusyInterval, error)
}

// GoogleFetcher implements BusyFetcher against the Google Calendar API.
type GoogleFetcher struct {
	oauth *oauth2.Config
	log   *zap.Logger
}

// NewGoogleFetcher builds a fetcher with readonly calendar scope.
func NewGoogleFetcher(clientID, clientSecret, redirectURL string, log *zap.Logger) *GoogleFetcher {
	return &GoogleFetcher{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{calendarapi.CalendarReadonlyScope},
			Endpoint:     google.Endpoint,
		},
		log: log,
	}
}

// OAuthConfig exposes the underlying config for the auth-flow handlers.
func (f *GoogleFetcher) OAuthConfig() *oauth2.Config {
	return f.oauth
}

// FetchBusyIntervals lists the account's primary-calendar events between
// from and to and converts timed events to busy intervals. All-day events
// are excluded entirely and never block a slot.
func (f *GoogleFetcher) FetchBusyIntervals(ctx context.Context, token *oauth2.Token, from, to time.Time) ([]availability.BusyInterval, error) {
	if token == nil {
		return nil, fmt.Errorf("fetch busy intervals: %w", availability.ErrPartyUnavailable)
	}

	client := f.oauth.Client(ctx, token)
	srv, err := calendarapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	events, err := srv.Events.List("primary").
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		MaxResults(250).
		Do()
	if err != nil {
		f.log.Warn("calendar events fetch failed", zap.Error(err))
		return nil, fmt.Errorf("list events: %w", availability.ErrPartyUnavailable)
	}

	return IntervalsFromEvents(events.Items), nil
}

// IntervalsFromEvents converts timed events to busy intervals. Events with a
// date-only start or end (all-day entries) are skipped, as are cancelled
// events and items whose timestamps fail to parse.
func IntervalsFromEvents(items []*calendarapi.Event) []availability.BusyInterval {
	var busy []availability.BusyInterval
	for _, item := range items {
		if item == nil || item.Status == "cancelled" {
			continue
		}
		if item.Start == nil || item.End == nil {
			continue
		}
		if item.Start.DateTime == "" || item.End.DateTime == "" {
			// All-day entry.
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}
		busy = append(busy, availability.BusyInterval{Start: start, End: end})
	}
	return busy
}
