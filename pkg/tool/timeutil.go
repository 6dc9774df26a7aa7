package tool

import (
	"time"

	"github.com/jinzhu/now"
)

// StartOfDay returns midnight of t's calendar day in loc, expressed in UTC.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	return now.With(t.In(loc)).BeginningOfDay().UTC()
}

// DayRange returns the half-open [from, to) bounds of t's calendar day in loc, in UTC.
// Days are stepped in loc so DST transitions yield 23 or 25 hour days.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	from := now.With(t.In(loc)).BeginningOfDay()
	return from.UTC(), from.AddDate(0, 0, 1).UTC()
}

// MonthRange returns the half-open [from, to) bounds of t's calendar month in loc, in UTC.
func MonthRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	from := now.With(t.In(loc)).BeginningOfMonth()
	return from.UTC(), from.AddDate(0, 1, 0).UTC()
}
