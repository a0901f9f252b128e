package model

import "time"

// Status mirrors the provider's event status. Cancelled events are dropped
// before they reach the layout engine.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusTentative Status = "tentative"
	StatusCancelled Status = "cancelled"
)

// CalendarEvent is a normalized all-day event as consumed by the layout
// engine. StartDate and EndDate are YYYY-MM-DD strings; EndDate is exclusive
// (a single-day event on Jan 1 has EndDate Jan 2).
type CalendarEvent struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	ColorID     string `json:"colorId,omitempty"`
	Status      Status `json:"status"`
	CalendarID  string `json:"calendarId"`

	// BackgroundColor is the owning calendar's colour, used when ColorID is empty.
	BackgroundColor string `json:"backgroundColor,omitempty"`
	HTMLLink        string `json:"htmlLink,omitempty"`
}

// HasDates reports whether both boundaries are present. Events without them
// are skipped by every layout pass.
func (e CalendarEvent) HasDates() bool {
	return e.StartDate != "" && e.EndDate != ""
}

// Overlaps reports whether [StartDate, EndDate) intersects [rangeStart, rangeEnd).
// All arguments are YYYY-MM-DD keys, so plain string comparison is exact.
func (e CalendarEvent) Overlaps(rangeStart, rangeEnd string) bool {
	return e.StartDate < rangeEnd && e.EndDate > rangeStart
}

// CalendarDay is one cell of a month or year grid.
type CalendarDay struct {
	Date           time.Time  `json:"-"`
	DateString     string     `json:"date"`
	DayOfMonth     int        `json:"dayOfMonth"`
	Month          time.Month `json:"month"`
	IsCurrentMonth bool       `json:"isCurrentMonth"`
	IsToday        bool       `json:"isToday"`
	IsFirstOfMonth bool       `json:"isFirstOfMonth,omitempty"`
}

// LayoutEvent places one event inside one week. The same event gets a
// separate LayoutEvent for every week it touches.
type LayoutEvent struct {
	Event CalendarEvent `json:"event"`

	Row         int `json:"row"`
	StartColumn int `json:"startColumn"` // 0-6, Monday = 0
	SpanDays    int `json:"spanDays"`

	ContinuesFromPrevious bool `json:"continuesFromPrevious"`
	ContinuesAfter        bool `json:"continuesAfter"`

	Color string `json:"color"`
}

// EndColumn returns the last column (inclusive) covered by the bar.
func (l LayoutEvent) EndColumn() int {
	return l.StartColumn + l.SpanDays - 1
}

// Segment is the part of an event that falls on one row of the linear year
// grid. Columns and rows are 1-indexed; GridColumnEnd is exclusive.
type Segment struct {
	Event CalendarEvent `json:"event"`

	GridColumnStart int `json:"gridColumnStart"`
	GridColumnEnd   int `json:"gridColumnEnd"`
	GridRowStart    int `json:"gridRowStart"`
	Track           int `json:"track"`

	IsStart bool `json:"isStart"`
	IsEnd   bool `json:"isEnd"`

	Color string `json:"color"`
}

// Span returns the number of columns the segment covers.
func (s Segment) Span() int {
	return s.GridColumnEnd - s.GridColumnStart
}

// DayDecoration aggregates the tentative/trip/visit markers of every event
// touching a single day.
type DayDecoration struct {
	HasTentative bool   `json:"hasTentative"`
	HasTrip      bool   `json:"hasTrip"`
	HasVisit     bool   `json:"hasVisit"`
	IsFirstDay   bool   `json:"isFirstDay"`
	IsLastDay    bool   `json:"isLastDay"`
	Color        string `json:"color,omitempty"`
}
