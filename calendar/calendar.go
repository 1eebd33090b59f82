// Package calendar converts instants to calendar days in the clinic time zone.
//
// Calendar days are represented as time.Time values at midnight UTC so they compare and
// subtract exactly, independently of daylight saving transitions in the clinic zone.
package calendar

import (
	"time"
)

const DateLayout = "2006-01-02"

type Clock struct {
	Location *time.Location
	Now      func() time.Time
}

func New(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{
		Location: loc,
		Now:      time.Now,
	}
}

// Fixed returns a clock which always reports now
func Fixed(loc *time.Location, now time.Time) *Clock {
	c := New(loc)
	c.Now = func() time.Time { return now }
	return c
}

// Today returns the current calendar day in the clock location
func (c *Clock) Today() time.Time {
	return c.Day(c.Now())
}

// Day returns the calendar day of t in the clock location
func (c *Clock) Day(t time.Time) time.Time {
	return Date(t.In(c.Location))
}

// Bounds returns the half open interval [start, end) of day in the clock location
func (c *Clock) Bounds(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, c.Location)
	return start, start.AddDate(0, 0, 1)
}

// Date truncates t to its calendar date, keeping the wall clock date of t's location
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

func AddDays(day time.Time, days int) time.Time {
	return Date(day).AddDate(0, 0, days)
}

func Format(day time.Time) string {
	return Date(day).Format(DateLayout)
}

func Parse(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
