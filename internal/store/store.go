// Package store is the pgx persistence boundary for schedules, team
// members, bookings, calendar tokens and the round-robin cursor.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoToken means a user has no stored calendar credential.
	ErrNoToken = errors.New("no calendar token")
	// ErrSlotTaken means a confirmed booking already holds the exact slot.
	ErrSlotTaken = errors.New("slot already booked")
)

// Store wraps a pgx pool with the queries the scheduling core needs.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) GetSchedule(ctx context.Context, id string) (*Schedule, error) {
	q := `SELECT id, owner_user_id, title, working_start, working_end,
	             COALESCE(break_start, ''), COALESCE(break_end, ''),
	             slot_duration_minutes, offset_minutes, COALESCE(weekday_mask, 0), created_at
	      FROM schedules WHERE id=$1`
	var sch Schedule
	err := s.db.QueryRow(ctx, q, id).Scan(
		&sch.ID, &sch.OwnerUserID, &sch.Title, &sch.WorkingStart, &sch.WorkingEnd,
		&sch.BreakStart, &sch.BreakEnd, &sch.SlotDurationMins, &sch.OffsetMinutes,
		&sch.WeekdayMask, &sch.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("schedule %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &sch, nil
}

// ListTeamMembers returns the schedule's members in ring order: joined_at
// ascending with id as tiebreaker.
func (s *Store) ListTeamMembers(ctx context.Context, scheduleID string) ([]TeamMember, error) {
	q := `SELECT id, schedule_id, user_id, COALESCE(email, ''), joined_at
	      FROM team_members WHERE schedule_id=$1
	      ORDER BY joined_at ASC, id ASC`
	rows, err := s.db.Query(ctx, q, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.ID, &m.ScheduleID, &m.UserID, &m.Email, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListConfirmedBookings returns confirmed bookings dated within [from, to].
func (s *Store) ListConfirmedBookings(ctx context.Context, scheduleID string, from, to time.Time) ([]Booking, error) {
	q := `SELECT id, schedule_id, COALESCE(assigned_member_id, ''), guest_email,
	             booking_date, start_min, end_min, status, created_at
	      FROM bookings
	      WHERE schedule_id=$1 AND status='confirmed'
	        AND booking_date >= $2 AND booking_date <= $3
	      ORDER BY booking_date, start_min`
	return s.queryBookings(ctx, q, scheduleID, from, to)
}

// ListBookings returns all of a schedule's bookings, newest date last.
func (s *Store) ListBookings(ctx context.Context, scheduleID string) ([]Booking, error) {
	q := `SELECT id, schedule_id, COALESCE(assigned_member_id, ''), guest_email,
	             booking_date, start_min, end_min, status, created_at
	      FROM bookings WHERE schedule_id=$1
	      ORDER BY booking_date, start_min`
	return s.queryBookings(ctx, q, scheduleID)
}

func (s *Store) queryBookings(ctx context.Context, q string, args ...any) ([]Booking, error) {
	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.ScheduleID, &b.AssignedMemberID, &b.GuestEmail,
			&b.Date, &b.StartMin, &b.EndMin, &b.Status, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CancelBooking flips a booking to cancelled; cancelling twice is a conflict.
func (s *Store) CancelBooking(ctx context.Context, id string) error {
	res, err := s.db.Exec(ctx,
		`UPDATE bookings SET status='cancelled' WHERE id=$1 AND status != 'cancelled'`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetCalendarToken loads a user's stored OAuth token.
func (s *Store) GetCalendarToken(ctx context.Context, userID string) (*oauth2.Token, error) {
	var raw []byte
	err := s.db.QueryRow(ctx,
		`SELECT token_json FROM calendar_tokens WHERE user_id=$1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNoToken)
	}
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("decode token for user %s: %w", userID, err)
	}
	return &token, nil
}

// SaveCalendarToken upserts a user's OAuth token.
func (s *Store) SaveCalendarToken(ctx context.Context, userID string, token *oauth2.Token) error {
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO calendar_tokens (user_id, token_json, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET token_json=$2, updated_at=now()`,
		userID, raw)
	return err
}

// BookWithAssignment runs the booking critical section for one schedule:
// lock the round-robin cursor row, check the slot is not already confirmed,
// run the caller's selection against the locked cursor value, insert the
// booking and advance the cursor, all in one transaction. Two concurrent
// bookings against the same schedule serialize on the cursor lock, so they
// cannot both read the same cursor and double-assign a member.
//
// pick receives the last assigned member id ("" when none) and returns the
// assigned member id, or "" for schedules without a team. A pick error
// aborts the transaction unchanged.
func (s *Store) BookWithAssignment(ctx context.Context, b *Booking, pick func(lastAssigned string) (string, error)) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO round_robin_cursors (schedule_id, last_assigned_member_id)
		 VALUES ($1, '') ON CONFLICT (schedule_id) DO NOTHING`, b.ScheduleID)
	if err != nil {
		return err
	}

	var lastAssigned string
	err = tx.QueryRow(ctx,
		`SELECT last_assigned_member_id FROM round_robin_cursors
		 WHERE schedule_id=$1 FOR UPDATE`, b.ScheduleID).Scan(&lastAssigned)
	if err != nil {
		return err
	}

	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM bookings
		 WHERE schedule_id=$1 AND booking_date=$2 AND start_min=$3 AND end_min=$4
		   AND status='confirmed' FOR UPDATE`,
		b.ScheduleID, b.Date, b.StartMin, b.EndMin).Scan(&existingID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if existingID != "" {
		return ErrSlotTaken
	}

	memberID, err := pick(lastAssigned)
	if err != nil {
		return err
	}
	b.AssignedMemberID = memberID
	b.Status = "confirmed"

	err = tx.QueryRow(ctx,
		`INSERT INTO bookings
		 (id, schedule_id, assigned_member_id, guest_email, booking_date, start_min, end_min, status, created_at)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, 'confirmed', now())
		 RETURNING created_at`,
		b.ID, b.ScheduleID, b.AssignedMemberID, b.GuestEmail, b.Date, b.StartMin, b.EndMin).
		Scan(&b.CreatedAt)
	if err != nil {
		return err
	}

	if memberID != "" {
		_, err = tx.Exec(ctx,
			`UPDATE round_robin_cursors SET last_assigned_member_id=$1, updated_at=now()
			 WHERE schedule_id=$2`, memberID, b.ScheduleID)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
