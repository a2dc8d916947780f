package analytics

import (
	"time"

	"goldvault/internal/core"
)

// periodMatcher decides whether t belongs to the period containing now.
type periodMatcher func(cal Calendar, t, now time.Time) bool

// periodMatchers maps each period to the calendar granularity it compares at.
var periodMatchers = map[core.Period]periodMatcher{
	core.Daily:   func(c Calendar, t, now time.Time) bool { return c.SameDay(t, now) },
	core.Weekly:  func(c Calendar, t, now time.Time) bool { return c.SameWeek(t, now) },
	core.Monthly: func(c Calendar, t, now time.Time) bool { return c.SameMonth(t, now) },
	core.Yearly:  func(c Calendar, t, now time.Time) bool { return c.SameYear(t, now) },
}
