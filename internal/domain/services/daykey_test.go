package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ersonp/wotd/internal/domain/entities"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestDayKeyResolver_TodayKey(t *testing.T) {
	london := mustLoad(t, "Europe/London")
	tokyo := mustLoad(t, "Asia/Tokyo")

	tests := []struct {
		name string
		loc  *time.Location
		now  time.Time
		want entities.DateKey
	}{
		{
			name: "winter London matches UTC date",
			loc:  london,
			now:  time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
			want: "2025-01-15",
		},
		{
			name: "summer London is ahead of UTC",
			loc:  london,
			now:  time.Date(2025, 7, 1, 23, 30, 0, 0, time.UTC),
			want: "2025-07-02",
		},
		{
			name: "Tokyo rolls over before UTC midnight",
			loc:  tokyo,
			now:  time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
			want: "2025-03-02",
		},
		{
			name: "host zone of the instant is ignored",
			loc:  time.UTC,
			now:  time.Date(2025, 3, 2, 1, 0, 0, 0, tokyo),
			want: "2025-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDayKeyResolver(tt.loc, fixedClock(tt.now))
			assert.Equal(t, tt.want, r.TodayKey())
		})
	}
}

func TestDayKeyResolver_StableWithinSecond(t *testing.T) {
	london := mustLoad(t, "Europe/London")
	instant := time.Date(2025, 5, 5, 10, 0, 0, 0, london)

	calls := 0
	r := NewDayKeyResolver(london, func() time.Time {
		calls++
		return instant.Add(time.Duration(calls) * 100 * time.Millisecond)
	})

	assert.Equal(t, r.TodayKey(), r.TodayKey())
}

func TestDayKeyResolver_AcrossMidnight(t *testing.T) {
	london := mustLoad(t, "Europe/London")
	midnight := time.Date(2025, 6, 10, 0, 0, 0, 0, london)

	before := NewDayKeyResolver(london, fixedClock(midnight.Add(-time.Second))).TodayKey()
	after := NewDayKeyResolver(london, fixedClock(midnight)).TodayKey()

	assert.Equal(t, entities.DateKey("2025-06-09"), before)
	assert.Equal(t, entities.DateKey("2025-06-10"), after)
	assert.Equal(t, before.AddDays(1), after)
}

func TestDayKeyResolver_NextMidnight(t *testing.T) {
	london := mustLoad(t, "Europe/London")
	now := time.Date(2025, 6, 10, 22, 15, 0, 0, london)

	r := NewDayKeyResolver(london, fixedClock(now))
	next := r.NextMidnight()

	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, london), next)
	assert.Equal(t, 105*time.Minute, next.Sub(now))

	at, left := r.UntilMidnight()
	assert.Equal(t, next, at)
	assert.Equal(t, 105*time.Minute, left)
}

func TestDayKeyResolver_UntilMidnight_ClockChange(t *testing.T) {
	// 30 March 2025 is 23 hours long in London.
	london := mustLoad(t, "Europe/London")
	start := time.Date(2025, 3, 30, 0, 0, 0, 0, london)

	_, left := NewDayKeyResolver(london, fixedClock(start)).UntilMidnight()
	assert.Equal(t, 23*time.Hour, left)
}

func TestDayKeyResolver_Defaults(t *testing.T) {
	r := NewDayKeyResolver(nil, nil)
	assert.Equal(t, time.UTC, r.Location())
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, r.TodayKey().String())
}
