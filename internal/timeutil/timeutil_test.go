package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	testCases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"12:30", 750, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09-00", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
		{"09:00:00", 0, true},
	}

	for _, tc := range testCases {
		got, err := ToMinutes(tc.input)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrMalformedTime, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestToTimeString(t *testing.T) {
	assert.Equal(t, "00:00", ToTimeString(0))
	assert.Equal(t, "09:05", ToTimeString(545))
	assert.Equal(t, "23:59", ToTimeString(1439))
}

func TestSnapToHalfHour(t *testing.T) {
	testCases := []struct {
		input, want int
	}{
		{0, 0},
		{14, 0},
		{15, 30}, // half rounds up
		{29, 30},
		{30, 30},
		{44, 30},
		{45, 60},
		{540, 540},
		{554, 540},
		{555, 570},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, SnapToHalfHour(tc.input), "input %d", tc.input)
	}
}

func TestAtMinutes_FixedOffset(t *testing.T) {
	date, err := ParseDate("2025-01-10", DefaultOffset)
	require.NoError(t, err)

	got := AtMinutes(date, 540, DefaultOffset)
	// 09:00 at +09:00 is midnight UTC.
	assert.True(t, got.Equal(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)))
}

func TestDayBounds(t *testing.T) {
	date, err := ParseDate("2025-01-10", DefaultOffset)
	require.NoError(t, err)

	start, end := DayBounds(date, DefaultOffset)
	assert.Equal(t, "2025-01-10T00:00:00+09:00", start.Format(time.RFC3339))
	assert.Equal(t, "2025-01-10T23:59:59+09:00", end.Format(time.RFC3339))
}

func TestDatesBetween(t *testing.T) {
	start, err := ParseDate("2025-01-10", DefaultOffset)
	require.NoError(t, err)
	end, err := ParseDate("2025-01-12", DefaultOffset)
	require.NoError(t, err)

	dates := DatesBetween(start, end)
	require.Len(t, dates, 3)
	assert.Equal(t, "2025-01-10", dates[0].Format("2006-01-02"))
	assert.Equal(t, "2025-01-12", dates[2].Format("2006-01-02"))

	assert.Len(t, DatesBetween(start, start), 1)
	assert.Nil(t, DatesBetween(end, start))
}
