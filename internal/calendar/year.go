package calendar

import (
	"time"

	"yearcal/internal/model"
)

// WeekLayout is one week row of a month card.
type WeekLayout struct {
	Days   []model.CalendarDay `json:"days"`
	Events []model.LayoutEvent `json:"events"`
	Rows   int                 `json:"rows"`
}

// MonthLayout is a single month card of the month-grouped year view.
type MonthLayout struct {
	Year  int          `json:"year"`
	Month time.Month   `json:"month"`
	Name  string       `json:"name"`
	Weeks []WeekLayout `json:"weeks"`
}

// LayoutMonth lays out every week of one month grid.
func LayoutMonth(year int, month time.Month, events []model.CalendarEvent, today time.Time) MonthLayout {
	weeks := GroupIntoWeeks(MonthGridDays(year, month, today))

	out := MonthLayout{
		Year:  year,
		Month: month,
		Name:  MonthName(month),
		Weeks: make([]WeekLayout, 0, len(weeks)),
	}
	for _, week := range weeks {
		layout := LayoutEventsForWeek(events, week)
		out.Weeks = append(out.Weeks, WeekLayout{
			Days:   week,
			Events: layout,
			Rows:   RowCount(layout),
		})
	}
	return out
}

// LayoutYear returns the twelve month cards of year.
func LayoutYear(year int, events []model.CalendarEvent, today time.Time) []MonthLayout {
	months := make([]MonthLayout, 0, 12)
	for m := time.January; m <= time.December; m++ {
		months = append(months, LayoutMonth(year, m, events, today))
	}
	return months
}

// EventsInYear keeps events that overlap Jan 1 through Dec 31 of year.
func EventsInYear(events []model.CalendarEvent, year int) []model.CalendarEvent {
	start := FormatDateKey(localDate(year, time.January, 1))
	end := FormatDateKey(localDate(year+1, time.January, 1))

	out := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if e.HasDates() && e.Overlaps(start, end) {
			out = append(out, e)
		}
	}
	return out
}
