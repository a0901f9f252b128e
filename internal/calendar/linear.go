package calendar

import (
	"sort"
	"time"

	"yearcal/internal/classify"
	"yearcal/internal/model"
)

// MinCellSize is the smallest day cell (in pixels) the linear view uses when
// deriving a column count from a viewport width.
const MinCellSize = 60

// LinearGrid is the continuous year grid: Jan 1 is placed on its Monday-first
// weekday column and the last row is padded to Columns.
type LinearGrid struct {
	Year         int                 `json:"year"`
	Columns      int                 `json:"columns"`
	PaddingStart int                 `json:"paddingStart"`
	PaddingEnd   int                 `json:"paddingEnd"`
	Rows         int                 `json:"rows"`
	Days         []model.CalendarDay `json:"days"`

	index map[string]int
}

// ColumnsForWidth returns the largest multiple of 7 columns whose cells are at
// least minCell wide, never fewer than 7.
func ColumnsForWidth(width, minCell int) int {
	if minCell <= 0 {
		minCell = MinCellSize
	}
	cols := (width / minCell) / DaysPerWeek * DaysPerWeek
	if cols < DaysPerWeek {
		return DaysPerWeek
	}
	return cols
}

// NormalizeColumns rounds columns down to a multiple of 7, with 7 as the floor.
func NormalizeColumns(columns int) int {
	if columns < DaysPerWeek {
		return DaysPerWeek
	}
	return columns / DaysPerWeek * DaysPerWeek
}

// NewLinearGrid builds the grid geometry for year.
func NewLinearGrid(year, columns int, today time.Time) *LinearGrid {
	columns = NormalizeColumns(columns)
	days := YearDays(year, today)

	g := &LinearGrid{
		Year:         year,
		Columns:      columns,
		PaddingStart: DayOfWeekMonday(localDate(year, time.January, 1)),
		Days:         days,
		index:        make(map[string]int, len(days)),
	}
	for i, d := range days {
		g.index[d.DateString] = i
	}

	total := g.PaddingStart + len(days)
	if rem := total % columns; rem != 0 {
		g.PaddingEnd = columns - rem
	}
	g.Rows = (total + g.PaddingEnd) / columns
	return g
}

// Segments splits every displayable event into per-row segments and assigns
// tracks row by row. Birthday events are left out: they render as badges.
func (g *LinearGrid) Segments(events []model.CalendarEvent) []model.Segment {
	raw := make([]model.Segment, 0, len(events))
	for _, e := range events {
		if !e.HasDates() || classify.Of(e).Has(classify.Birthday) {
			continue
		}
		raw = append(raw, g.segmentsForEvent(e)...)
	}
	return allocateTracks(raw)
}

func (g *LinearGrid) segmentsForEvent(e model.CalendarEvent) []model.Segment {
	start, err := ParseDateKey(e.StartDate)
	if err != nil {
		return nil
	}
	end, err := ParseDateKey(e.EndDate)
	if err != nil {
		return nil
	}
	// Inclusive last day.
	end = addDays(end, -1)

	yearStart := localDate(g.Year, time.January, 1)
	yearEnd := localDate(g.Year, time.December, 31)
	if start.Before(yearStart) {
		start = yearStart
	}
	if end.After(yearEnd) {
		end = yearEnd
	}

	startIdx, ok := g.index[FormatDateKey(start)]
	if !ok {
		return nil
	}
	endIdx, ok := g.index[FormatDateKey(end)]
	if !ok || endIdx < startIdx {
		return nil
	}

	// Zero-based absolute cell positions.
	startPos := g.PaddingStart + startIdx
	endPos := g.PaddingStart + endIdx
	startRow := startPos / g.Columns
	endRow := endPos / g.Columns
	color := model.ColorFor(e)

	segments := make([]model.Segment, 0, endRow-startRow+1)
	for row := startRow; row <= endRow; row++ {
		colStart, colEnd := 1, g.Columns+1
		if row == startRow {
			colStart = startPos%g.Columns + 1
		}
		if row == endRow {
			colEnd = endPos%g.Columns + 2
		}
		segments = append(segments, model.Segment{
			Event:           e,
			GridColumnStart: colStart,
			GridColumnEnd:   colEnd,
			GridRowStart:    row + 1,
			IsStart:         row == startRow,
			IsEnd:           row == endRow,
			Color:           color,
		})
	}
	return segments
}

// allocateTracks packs segments into tracks independently per grid row.
// Within a row segments are ordered by start column, longer spans first, and
// each takes the first track that is free at its start column.
func allocateTracks(raw []model.Segment) []model.Segment {
	byRow := make(map[int][]model.Segment)
	rows := make([]int, 0)
	for _, s := range raw {
		if _, ok := byRow[s.GridRowStart]; !ok {
			rows = append(rows, s.GridRowStart)
		}
		byRow[s.GridRowStart] = append(byRow[s.GridRowStart], s)
	}
	sort.Ints(rows)

	out := make([]model.Segment, 0, len(raw))
	for _, row := range rows {
		segs := byRow[row]
		sort.SliceStable(segs, func(i, j int) bool {
			if segs[i].GridColumnStart != segs[j].GridColumnStart {
				return segs[i].GridColumnStart < segs[j].GridColumnStart
			}
			if segs[i].Span() != segs[j].Span() {
				return segs[i].Span() > segs[j].Span()
			}
			if segs[i].Event.StartDate != segs[j].Event.StartDate {
				return segs[i].Event.StartDate < segs[j].Event.StartDate
			}
			return segs[i].Event.ID < segs[j].Event.ID
		})

		// trackEnd[t] is the exclusive column at which track t becomes free.
		var trackEnd []int
		for _, s := range segs {
			track := 0
			for track < len(trackEnd) && trackEnd[track] > s.GridColumnStart {
				track++
			}
			if track == len(trackEnd) {
				trackEnd = append(trackEnd, 0)
			}
			trackEnd[track] = s.GridColumnEnd
			s.Track = track
			out = append(out, s)
		}
	}
	return out
}

// TrackCount returns the number of tracks used on each grid row.
func TrackCount(segments []model.Segment) map[int]int {
	counts := make(map[int]int)
	for _, s := range segments {
		if s.Track+1 > counts[s.GridRowStart] {
			counts[s.GridRowStart] = s.Track + 1
		}
	}
	return counts
}
