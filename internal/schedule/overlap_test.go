package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rng(date time.Time, start int, end int) Range {
	return Range{Date: date, StartMin: start, EndMin: &end}
}

func TestOverlaps(t *testing.T) {
	mar1 := day(2026, time.March, 1)
	mar2 := day(2026, time.March, 2)

	cases := []struct {
		name string
		a, b Range
		want bool
	}{
		{"identical slots", rng(mar1, 600, 660), rng(mar1, 600, 660), true},
		{"partial overlap", rng(mar1, 600, 660), rng(mar1, 630, 690), true},
		{"contained", rng(mar1, 600, 720), rng(mar1, 630, 660), true},
		{"back to back", rng(mar1, 600, 660), rng(mar1, 660, 720), false},
		{"disjoint same day", rng(mar1, 600, 660), rng(mar1, 720, 780), false},
		{"same clock different day", rng(mar1, 600, 660), rng(mar2, 600, 660), false},
		{"touching start", rng(mar1, 660, 720), rng(mar1, 600, 660), false},
		{"one minute overlap", rng(mar1, 600, 661), rng(mar1, 660, 720), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			// conflict is symmetric
			assert.Equal(t, tc.want, Overlaps(tc.b, tc.a))
		})
	}
}

func TestOverlapsNilEndNeverConflicts(t *testing.T) {
	mar1 := day(2026, time.March, 1)
	open := Range{Date: mar1, StartMin: 600}
	bounded := rng(mar1, 600, 660)

	assert.False(t, Overlaps(open, bounded))
	assert.False(t, Overlaps(bounded, open))
	assert.False(t, Overlaps(open, open))
}

func TestOverlapsInvertedIntervalDoesNotPanic(t *testing.T) {
	mar1 := day(2026, time.March, 1)
	// end before start: comparison still runs, just never matches a sane slot
	inverted := rng(mar1, 660, 600)
	assert.False(t, Overlaps(inverted, rng(mar1, 720, 780)))
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"10:00", 600},
		{"10:30:00", 630},
		{"00:00", 0},
		{"23:59:59", 23*60 + 59},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	for _, bad := range []string{"", "25:00", "10:75", "abc", "-1:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestFormatClockRoundTrips(t *testing.T) {
	for _, min := range []int{0, 1, 59, 60, 600, 23*60 + 59} {
		got, err := ParseClock(FormatClock(min))
		require.NoError(t, err)
		assert.Equal(t, min, got)
	}
}

func TestStartInstant(t *testing.T) {
	d := day(2026, time.March, 1)
	at := StartInstant(d, 10*60+30)
	assert.Equal(t, time.Date(2026, time.March, 1, 10, 30, 0, 0, time.UTC), at)
}
