package calendar

import (
	"sort"

	"yearcal/internal/model"
)

// EventDuration returns the length of e in days (EndDate is exclusive).
// Events with unparsable dates have duration 0.
func EventDuration(e model.CalendarEvent) int {
	start, err := ParseDateKey(e.StartDate)
	if err != nil {
		return 0
	}
	end, err := ParseDateKey(e.EndDate)
	if err != nil {
		return 0
	}
	return DaysBetween(start, end)
}

// SortForPacking orders events longest first, then by start date. Remaining
// ties fall back to the event ID so the order never depends on input order.
func SortForPacking(events []model.CalendarEvent) {
	durations := make(map[string]int, len(events))
	duration := func(e model.CalendarEvent) int {
		k := e.ID + "\x00" + e.StartDate + "\x00" + e.EndDate
		d, ok := durations[k]
		if !ok {
			d = EventDuration(e)
			durations[k] = d
		}
		return d
	}

	sort.SliceStable(events, func(i, j int) bool {
		di, dj := duration(events[i]), duration(events[j])
		if di != dj {
			return di > dj
		}
		if events[i].StartDate != events[j].StartDate {
			return events[i].StartDate < events[j].StartDate
		}
		return events[i].ID < events[j].ID
	})
}

// LayoutEventsForWeek computes bar positions for one 7-day week.
//
// Events overlapping the week are packed longest first into the first row
// whose cells are free across the event's visible columns. Visible columns
// are clamped to the week and then clipped to exclude ghost days (days not in
// the displayed month); an event left with no visible day is dropped for this
// week only.
func LayoutEventsForWeek(events []model.CalendarEvent, week []model.CalendarDay) []model.LayoutEvent {
	if len(week) != DaysPerWeek {
		return nil
	}

	weekStart := week[0].DateString
	weekEnd, err := AddDaysKey(week[DaysPerWeek-1].DateString, 1)
	if err != nil {
		return nil
	}

	relevant := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		if !e.HasDates() || !e.Overlaps(weekStart, weekEnd) {
			continue
		}
		relevant = append(relevant, e)
	}
	SortForPacking(relevant)

	var occupancy [][DaysPerWeek]bool
	out := make([]model.LayoutEvent, 0, len(relevant))

	for _, e := range relevant {
		startCol, endCol, ok := visibleColumns(e, week)
		if !ok {
			continue
		}

		row := 0
		for ; ; row++ {
			if row == len(occupancy) {
				occupancy = append(occupancy, [DaysPerWeek]bool{})
			}
			if rowFree(occupancy[row], startCol, endCol) {
				break
			}
		}
		for c := startCol; c <= endCol; c++ {
			occupancy[row][c] = true
		}

		out = append(out, model.LayoutEvent{
			Event:                 e,
			Row:                   row,
			StartColumn:           startCol,
			SpanDays:              endCol - startCol + 1,
			ContinuesFromPrevious: e.StartDate < weekStart,
			ContinuesAfter:        e.EndDate > weekEnd,
			Color:                 model.ColorFor(e),
		})
	}

	return out
}

// RowCount returns the number of bar rows used by a week layout.
func RowCount(layout []model.LayoutEvent) int {
	max := -1
	for _, l := range layout {
		if l.Row > max {
			max = l.Row
		}
	}
	return max + 1
}

// visibleColumns returns the inclusive column range e covers in week after
// clamping and ghost-day clipping.
func visibleColumns(e model.CalendarEvent, week []model.CalendarDay) (int, int, bool) {
	startCol := 0
	for i, d := range week {
		if d.DateString >= e.StartDate {
			startCol = i
			break
		}
	}

	endCol := -1
	for i := DaysPerWeek - 1; i >= 0; i-- {
		// Day i is covered when the exclusive end lies after it.
		if week[i].DateString < e.EndDate {
			endCol = i
			break
		}
	}
	if endCol < 0 {
		return 0, 0, false
	}

	for startCol <= endCol && !week[startCol].IsCurrentMonth {
		startCol++
	}
	for endCol >= startCol && !week[endCol].IsCurrentMonth {
		endCol--
	}
	if startCol > endCol {
		return 0, 0, false
	}
	return startCol, endCol, true
}

func rowFree(row [DaysPerWeek]bool, from, to int) bool {
	for c := from; c <= to; c++ {
		if row[c] {
			return false
		}
	}
	return true
}
