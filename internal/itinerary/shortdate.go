package itinerary

import (
	"strings"
	"time"

	"yearcal/internal/calendar"
)

// lookback is how far in the past a yearless date may fall before it is
// assumed to belong to next year.
const lookback = 6

// ResolveShortDate turns "Mar 22" into a date in now's year, or next year when
// that date is more than six months before now. This is a heuristic: a
// booking parsed right at the six-month boundary may land in the wrong year.
func ResolveShortDate(s string, now time.Time) (time.Time, bool) {
	t, err := time.Parse("Jan 2", strings.Join(strings.Fields(s), " "))
	if err != nil {
		return time.Time{}, false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	year := now.Year()
	if time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, now.Location()).Before(today.AddDate(0, -lookback, 0)) {
		year++
	}
	// Feb 29 outside a leap year is rejected rather than rolled into March.
	if t.Day() > calendar.DaysInMonth(year, t.Month()) {
		return time.Time{}, false
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
}
