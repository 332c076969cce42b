// Package timeutil provides wall-clock time conversion utilities.
package timeutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTime is returned when a wall-clock string does not match HH:MM.
var ErrMalformedTime = errors.New("time must be in HH:MM format")

// DefaultOffset is the fixed offset all wall-clock times are interpreted in.
// Slot boundaries are built against this zone, never the system-local one.
var DefaultOffset = time.FixedZone("+09:00", 9*60*60)

const dateLayout = "2006-01-02"

// ToMinutes converts "HH:MM" to minutes since midnight.
// Input must satisfy ^([0-1][0-9]|2[0-3]):[0-5][0-9]$.
func ToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, s)
	}
	return hours*60 + mins, nil
}

// ToTimeString converts minutes since midnight to "HH:MM".
// Defined for 0 <= m < 1440.
func ToTimeString(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// SnapToHalfHour rounds m to the nearest multiple of 30, half up.
func SnapToHalfHour(m int) int {
	return (m + 15) / 30 * 30
}

// ParseDate parses a YYYY-MM-DD calendar date in the given offset.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, loc)
}

// AtMinutes returns the absolute instant of a wall-clock minute on date,
// interpreted in loc.
func AtMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// DayBounds returns the [00:00:00, 23:59:59] window of date in loc.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d, 23, 59, 59, 0, loc)
	return start, end
}

// DatesBetween returns every calendar date from start to end inclusive, in
// ascending order. Returns nil when end precedes start.
func DatesBetween(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
