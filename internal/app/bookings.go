package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"meeting-scheduler/internal/availability"
	"meeting-scheduler/internal/store"
	"meeting-scheduler/internal/timeutil"
)

type createBookingReq struct {
	GuestEmail string `json:"guest_email" binding:"required,email"`
	Date       string `json:"date" binding:"required"`       // YYYY-MM-DD
	StartTime  string `json:"start_time" binding:"required"` // HH:MM
	EndTime    string `json:"end_time" binding:"required"`   // HH:MM
}

// POST /api/schedules/:id/bookings
//
// Validates that the requested interval is one of the schedule's generated
// slots, then books it inside the store's cursor-locked transaction. For
// team schedules the assignee comes from round-robin selection over live
// member availability; an exhausted ring rejects the booking.
func (a *App) CreateBookingHandler(c *gin.Context) {
	sch, cfg, ok := a.scheduleConfig(c)
	if !ok {
		return
	}
	var req createBookingReq
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := timeutil.ParseDate(req.Date, cfg.Offset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	startMin, err := timeutil.ToMinutes(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	endMin, err := timeutil.ToMinutes(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requested := availability.Slot{Date: date, StartMin: startMin, EndMin: endMin}
	if !slotExists(requested, cfg) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "slot not available"})
		return
	}

	ctx := c.Request.Context()
	start, end := requested.Interval(cfg.Offset)

	members, err := a.Repo.ListTeamMembers(ctx, sch.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// All busy data is gathered before entering the critical section; the
	// transaction only selects and writes.
	var (
		ring         []availability.TeamMember
		busyByMember map[string][]availability.BusyInterval
	)
	if len(members) > 0 {
		perMember, ferr := a.fetchTeamBusy(ctx, members, cfg, date, date)
		if ferr != nil {
			a.respondAvailabilityError(c, ferr)
			return
		}
		ring = store.Ring(members)
		busyByMember = make(map[string][]availability.BusyInterval, len(members))
		for i, m := range members {
			busyByMember[m.ID] = perMember[i]
		}
	} else {
		busy, ferr := a.fetchBusy(ctx, sch.OwnerUserID, cfg, date, date)
		if ferr != nil {
			a.respondAvailabilityError(c, ferr)
			return
		}
		if !availability.IsMemberFree(busy, start, end) {
			c.JSON(http.StatusConflict, gin.H{"error": "host is busy for the requested slot"})
			return
		}
	}

	booking := &store.Booking{
		ID:         uuid.NewString(),
		ScheduleID: sch.ID,
		GuestEmail: req.GuestEmail,
		Date:       date,
		StartMin:   startMin,
		EndMin:     endMin,
	}

	pick := func(lastAssigned string) (string, error) {
		if len(ring) == 0 {
			return "", nil
		}
		m, found := availability.SelectNextAvailableMember(ring, lastAssigned, start, end, busyByMember)
		if !found {
			return "", ErrNoAssignableMember
		}
		return m.ID, nil
	}

	if err := a.Repo.BookWithAssignment(ctx, booking, pick); err != nil {
		switch {
		case errors.Is(err, ErrNoAssignableMember):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, store.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	a.Cache.Invalidate(ctx, sch.ID)
	a.Log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("schedule_id", sch.ID),
		zap.String("assigned_member_id", booking.AssignedMemberID))
	c.JSON(http.StatusCreated, booking)
}

// slotExists reports whether the requested tuple is one of the slots the
// schedule's configuration generates for that date.
func slotExists(requested availability.Slot, cfg availability.SlotConfig) bool {
	if !cfg.AllowsWeekday(requested.Date.Weekday()) {
		return false
	}
	for _, s := range availability.GenerateDaySlots(requested.Date, cfg) {
		if s.Key() == requested.Key() {
			return true
		}
	}
	return false
}

// GET /api/schedules/:id/bookings
func (a *App) ListBookingsHandler(c *gin.Context) {
	bookings, err := a.Repo.ListBookings(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// DELETE /api/bookings/:id
func (a *App) CancelBookingHandler(c *gin.Context) {
	if err := a.Repo.CancelBooking(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
