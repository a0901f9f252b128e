package calendar

import (
	"yearcal/internal/classify"
	"yearcal/internal/model"
)

// Decorations holds the per-day lookups of the year grid, keyed by date key.
type Decorations struct {
	ByDate    map[string]model.DayDecoration   `json:"byDate"`
	Birthdays map[string][]model.CalendarEvent `json:"birthdays"`
}

// BuildDecorations walks every tentative, trip, visit or birthday event once
// and records it on each day it covers. Cost is proportional to the summed
// duration of those events, not to days times events.
func BuildDecorations(events []model.CalendarEvent) Decorations {
	out := Decorations{
		ByDate:    make(map[string]model.DayDecoration),
		Birthdays: make(map[string][]model.CalendarEvent),
	}

	for _, e := range events {
		if !e.HasDates() {
			continue
		}
		cat := classify.Of(e)
		if cat == classify.Plain {
			continue
		}

		start, err := ParseDateKey(e.StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDateKey(e.EndDate)
		if err != nil {
			continue
		}
		total := DaysBetween(start, end)
		color := model.ColorFor(e)
		marks := cat.Has(classify.Tentative) || cat.Has(classify.Trip) || cat.Has(classify.Visit)

		for i, d := 0, start; i < total; i, d = i+1, addDays(d, 1) {
			key := FormatDateKey(d)

			if marks {
				cur := out.ByDate[key]
				cur.HasTentative = cur.HasTentative || cat.Has(classify.Tentative)
				cur.HasTrip = cur.HasTrip || cat.Has(classify.Trip)
				cur.HasVisit = cur.HasVisit || cat.Has(classify.Visit)
				cur.IsFirstDay = cur.IsFirstDay || i == 0
				cur.IsLastDay = cur.IsLastDay || i == total-1
				cur.Color = classify.DecorationColor(cur.Color, cat, color)
				out.ByDate[key] = cur
			}

			if cat.Has(classify.Birthday) {
				out.Birthdays[key] = append(out.Birthdays[key], e)
			}
		}
	}

	return out
}

// For returns the decoration for a day, or the zero value.
func (d Decorations) For(key string) model.DayDecoration {
	return d.ByDate[key]
}
