package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"meeting-scheduler/internal/availability"
	"meeting-scheduler/internal/cache"
	"meeting-scheduler/internal/store"
	"meeting-scheduler/internal/timeutil"
)

// parseRange reads from/to query params as inclusive YYYY-MM-DD dates in
// the schedule's offset.
func parseRange(c *gin.Context, cfg availability.SlotConfig) (time.Time, time.Time, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to required (YYYY-MM-DD)"})
		return time.Time{}, time.Time{}, false
	}
	from, err := timeutil.ParseDate(fromStr, cfg.Offset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
		return time.Time{}, time.Time{}, false
	}
	to, err := timeutil.ParseDate(toStr, cfg.Offset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
		return time.Time{}, time.Time{}, false
	}
	if to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must not precede from"})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (a *App) scheduleConfig(c *gin.Context) (*store.Schedule, availability.SlotConfig, bool) {
	sch, err := a.Repo.GetSchedule(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
		return nil, availability.SlotConfig{}, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, availability.SlotConfig{}, false
	}
	cfg, err := sch.SlotConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, availability.SlotConfig{}, false
	}
	return sch, cfg, true
}

// fetchBusy loads one user's busy intervals over the inclusive date range.
// Any failure, including a missing credential, means that party's
// availability is unknown.
func (a *App) fetchBusy(ctx context.Context, userID string, cfg availability.SlotConfig, from, to time.Time) ([]availability.BusyInterval, error) {
	token, err := a.Repo.GetCalendarToken(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoToken) {
			return nil, availability.ErrPartyUnavailable
		}
		return nil, err
	}
	windowStart, _ := timeutil.DayBounds(from, cfg.Offset)
	_, windowEnd := timeutil.DayBounds(to, cfg.Offset)
	return a.Fetcher.FetchBusyIntervals(ctx, token, windowStart, windowEnd)
}

func (a *App) confirmedSlots(ctx context.Context, scheduleID string, cfg availability.SlotConfig, from, to time.Time) ([]availability.Slot, error) {
	bookings, err := a.Repo.ListConfirmedBookings(ctx, scheduleID, from, to)
	if err != nil {
		return nil, err
	}
	return store.BookingSlots(bookings, cfg.Offset), nil
}

// GET /api/schedules/:id/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
func (a *App) GetSlotsHandler(c *gin.Context) {
	sch, cfg, ok := a.scheduleConfig(c)
	if !ok {
		return
	}
	from, to, ok := parseRange(c, cfg)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	key := cache.Key(sch.ID, from, to, false)
	if slots, hit := a.Cache.Get(ctx, key); hit {
		c.JSON(http.StatusOK, toSlotResponses(slots))
		return
	}

	busy, err := a.fetchBusy(ctx, sch.OwnerUserID, cfg, from, to)
	if err != nil {
		a.respondAvailabilityError(c, err)
		return
	}
	confirmed, err := a.confirmedSlots(ctx, sch.ID, cfg, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slots, err := availability.ComputeAvailableSlots(cfg, from, to, busy, confirmed)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	a.Cache.Set(ctx, key, slots)
	c.JSON(http.StatusOK, toSlotResponses(slots))
}

// GET /api/schedules/:id/team-slots?from=YYYY-MM-DD&to=YYYY-MM-DD
//
// Per-member busy fetches fan out concurrently; the intersection waits for
// every member. A single failed fetch fails the whole request, never a
// partial intersection.
func (a *App) GetTeamSlotsHandler(c *gin.Context) {
	sch, cfg, ok := a.scheduleConfig(c)
	if !ok {
		return
	}
	from, to, ok := parseRange(c, cfg)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	members, err := a.Repo.ListTeamMembers(ctx, sch.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(members) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "schedule has no team members"})
		return
	}

	key := cache.Key(sch.ID, from, to, true)
	if slots, hit := a.Cache.Get(ctx, key); hit {
		c.JSON(http.StatusOK, toSlotResponses(slots))
		return
	}

	perMember, err := a.fetchTeamBusy(ctx, members, cfg, from, to)
	if err != nil {
		a.respondAvailabilityError(c, err)
		return
	}
	confirmed, err := a.confirmedSlots(ctx, sch.ID, cfg, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	slots, err := availability.ComputeTeamAvailableSlots(cfg, from, to, perMember, confirmed)
	if err != nil {
		a.respondAvailabilityError(c, err)
		return
	}
	a.Cache.Set(ctx, key, slots)
	c.JSON(http.StatusOK, toSlotResponses(slots))
}

// fetchTeamBusy fans out one busy fetch per member and joins. The errgroup
// cancels outstanding fetches on the first failure.
func (a *App) fetchTeamBusy(ctx context.Context, members []store.TeamMember, cfg availability.SlotConfig, from, to time.Time) ([][]availability.BusyInterval, error) {
	perMember := make([][]availability.BusyInterval, len(members))
	g, gctx := errgroup.WithContext(ctx)
	for i, m := range members {
		g.Go(func() error {
			busy, err := a.fetchBusy(gctx, m.UserID, cfg, from, to)
			if err != nil {
				a.Log.Warn("member busy fetch failed",
					zap.String("member_id", m.ID), zap.Error(err))
				return err
			}
			perMember[i] = busy
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return perMember, nil
}

func (a *App) respondAvailabilityError(c *gin.Context, err error) {
	if errors.Is(err, availability.ErrPartyUnavailable) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "calendar unavailable for a required party"})
		return
	}
	if errors.Is(err, timeutil.ErrMalformedTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
