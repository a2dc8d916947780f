// Package calendar answers "same day/week/month/year" questions for a fixed
// location and first day of the week.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Calendar compares instants at calendar granularity. Both instants are moved
// into Location before comparing, so two timestamps recorded in different
// zones are judged by the wall clock of the user.
type Calendar struct {
	Location     *time.Location
	FirstWeekday time.Weekday
}

// Default uses the host time zone and weeks starting on Sunday.
func Default() Calendar {
	return Calendar{Location: time.Local, FirstWeekday: time.Sunday}
}

// New builds a calendar for the named IANA zone ("" or "Local" for the host
// zone) and first weekday ("sunday" or "monday").
func New(zone, weekStart string) (Calendar, error) {
	cal := Default()
	if zone != "" && zone != "Local" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return cal, fmt.Errorf("load location %q: %w", zone, err)
		}
		cal.Location = loc
	}
	wd, err := ParseWeekday(weekStart)
	if err != nil {
		return cal, err
	}
	cal.FirstWeekday = wd
	return cal, nil
}

// ParseWeekday accepts sunday or monday; empty means sunday.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported week start %q: must be sunday or monday", s)
	}
}

func (c Calendar) in(t time.Time) time.Time {
	if c.Location == nil {
		return t.In(time.Local)
	}
	return t.In(c.Location)
}

// SameDay reports whether a and b fall on the same calendar day.
func (c Calendar) SameDay(a, b time.Time) bool {
	a, b = c.in(a), c.in(b)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// SameWeek reports whether a and b fall in the same week. Weeks are compared
// by their first day, so the last days of December and the first days of
// January share a week when no week start lies between them.
func (c Calendar) SameWeek(a, b time.Time) bool {
	return c.StartOfWeek(a).Equal(c.StartOfWeek(b))
}

// SameMonth reports whether a and b fall in the same month of the same year.
func (c Calendar) SameMonth(a, b time.Time) bool {
	a, b = c.in(a), c.in(b)
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// SameYear reports whether a and b fall in the same year.
func (c Calendar) SameYear(a, b time.Time) bool {
	return c.in(a).Year() == c.in(b).Year()
}

// StartOfDay returns midnight of t's day.
func (c Calendar) StartOfDay(t time.Time) time.Time {
	t = c.in(t)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the first day of t's week.
func (c Calendar) StartOfWeek(t time.Time) time.Time {
	day := c.StartOfDay(t)
	back := (int(day.Weekday()) - int(c.FirstWeekday) + 7) % 7
	return day.AddDate(0, 0, -back)
}
