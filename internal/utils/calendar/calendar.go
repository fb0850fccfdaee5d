// Package calendar has the year-agnostic date helpers used by reserve rules:
// MM-DD season bounds, HH:MM cutoffs and week/month/season windows.
package calendar

import (
	"fmt"
	"time"
)

// MonthDay is a year-agnostic date written as MM-DD.
type MonthDay struct {
	Month time.Month
	Day   int
}

func ParseMonthDay(s string) (MonthDay, error) {
	var m, d int
	if len(s) != 5 || s[2] != '-' {
		return MonthDay{}, fmt.Errorf("invalid month-day %q: expected MM-DD", s)
	}
	if _, err := fmt.Sscanf(s, "%02d-%02d", &m, &d); err != nil {
		return MonthDay{}, fmt.Errorf("invalid month-day %q: %w", s, err)
	}
	if m < 1 || m > 12 {
		return MonthDay{}, fmt.Errorf("invalid month in %q", s)
	}
	// 2000 is a leap year so 02-29 is accepted.
	if d < 1 || d > daysIn(time.Month(m), 2000) {
		return MonthDay{}, fmt.Errorf("invalid day in %q", s)
	}
	return MonthDay{Month: time.Month(m), Day: d}, nil
}

func MustMonthDay(s string) MonthDay {
	md, err := ParseMonthDay(s)
	if err != nil {
		panic(err)
	}
	return md
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

func (m MonthDay) ordinal() int {
	return int(m.Month)*100 + m.Day
}

// Of returns the MonthDay of t.
func Of(t time.Time) MonthDay {
	return MonthDay{Month: t.Month(), Day: t.Day()}
}

// InRange reports whether t falls in [start, end] ignoring the year. When end
// is before start the range wraps across the new year.
func InRange(t time.Time, start, end MonthDay) bool {
	x := Of(t).ordinal()
	s, e := start.ordinal(), end.ordinal()
	if s <= e {
		return x >= s && x <= e
	}
	return x >= s || x <= e
}

// In returns the date of m in year, at midnight in loc.
func (m MonthDay) In(year int, loc *time.Location) time.Time {
	return time.Date(year, m.Month, m.Day, 0, 0, 0, 0, loc)
}

// TimeOfDay is a wall-clock time written as HH:MM.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On returns the instant of t on the calendar day of date, in date's location.
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, date.Location())
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

// SeasonStart returns the most recent occurrence of start on or before t.
func SeasonStart(t time.Time, start MonthDay) time.Time {
	s := start.In(t.Year(), t.Location())
	if s.After(t) {
		s = start.In(t.Year()-1, t.Location())
	}
	return s
}

// SameDay reports whether a and b are the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysIn(m time.Month, year int) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
