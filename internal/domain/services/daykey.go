package services

import (
	"time"

	"github.com/ersonp/wotd/internal/domain/entities"
)

// DefaultTimezone is the zone that defines "today" when none is configured.
const DefaultTimezone = "Europe/London"

// DayKeyResolver decides which calendar day "now" belongs to, observed in a
// single configured zone. All day-boundary decisions go through it.
type DayKeyResolver struct {
	loc *time.Location
	now func() time.Time
}

// NewDayKeyResolver creates a resolver for loc. A nil now uses time.Now.
func NewDayKeyResolver(loc *time.Location, now func() time.Time) *DayKeyResolver {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &DayKeyResolver{loc: loc, now: now}
}

// TodayKey returns today's date in the configured zone.
func (r *DayKeyResolver) TodayKey() entities.DateKey {
	return entities.DateKeyOf(r.now().In(r.loc))
}

// NextMidnight returns the start of tomorrow in the configured zone.
func (r *DayKeyResolver) NextMidnight() time.Time {
	next, _ := r.UntilMidnight()
	return next
}

// UntilMidnight returns the start of tomorrow and the time left until then,
// both read from a single clock sample.
func (r *DayKeyResolver) UntilMidnight() (time.Time, time.Duration) {
	now := r.now().In(r.loc)
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, r.loc)
	return next, next.Sub(now)
}

// Location returns the configured zone.
func (r *DayKeyResolver) Location() *time.Location {
	return r.loc
}
