package trips

import (
	"time"

	"yearcal/internal/calendar"
)

const (
	minimapWeeks = 5
	rangeLayout  = "Mon Jan 2"
)

// MinimapDay is one cell of the trip minimap.
type MinimapDay struct {
	Date   string `json:"date"`
	InTrip bool   `json:"inTrip"`
	Today  bool   `json:"today"`
}

// FormatDateRange renders the inclusive range of [start, end):
// "Sun Feb 15 - Sun 22" inside one month, "Fri Feb 14 - Sun Mar 2" across
// months, or a single date.
func FormatDateRange(start, end string) string {
	s, err := calendar.ParseDateKey(start)
	if err != nil {
		return ""
	}
	e, err := calendar.ParseDateKey(end)
	if err != nil {
		return ""
	}
	e = e.AddDate(0, 0, -1)

	first := s.Format(rangeLayout)
	if !e.After(s) {
		return first
	}
	if s.Year() == e.Year() && s.Month() == e.Month() {
		return first + " - " + e.Format("Mon 2")
	}
	return first + " - " + e.Format(rangeLayout)
}

// MinimapWeeks covers the trip's Monday-first weeks plus at most one week of
// context on each side, as long as the total stays within five weeks.
func MinimapWeeks(start, end string, today time.Time) [][]MinimapDay {
	s, err := calendar.ParseDateKey(start)
	if err != nil {
		return nil
	}
	e, err := calendar.ParseDateKey(end)
	if err != nil || !e.After(s) {
		return nil
	}

	weekStart := s.AddDate(0, 0, -calendar.DayOfWeekMonday(s))
	last := e.AddDate(0, 0, -1)
	weekEnd := last.AddDate(0, 0, 6-calendar.DayOfWeekMonday(last))
	// Counted as ceil(span/7)+1, one more than the weeks drawn, so trips of
	// three weeks or more get at most one context week.
	span := calendar.DaysBetween(weekStart, weekEnd)
	tripWeeks := (span+calendar.DaysPerWeek-1)/calendar.DaysPerWeek + 1

	avail := minimapWeeks - tripWeeks
	if avail < 0 {
		avail = 0
	}
	before := min(1, avail/2)
	after := min(1, avail-before)

	from := weekStart.AddDate(0, 0, -7*before)
	to := weekEnd.AddDate(0, 0, 7*after)
	todayKey := calendar.FormatDateKey(today)

	var weeks [][]MinimapDay
	var week []MinimapDay
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := calendar.FormatDateKey(d)
		week = append(week, MinimapDay{
			Date:   key,
			InTrip: key >= start && key < end,
			Today:  key == todayKey,
		})
		if len(week) == calendar.DaysPerWeek {
			weeks = append(weeks, week)
			week = nil
		}
	}
	return weeks
}
