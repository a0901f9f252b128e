// Package trips derives the trip list view from classified events.
package trips

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"yearcal/internal/calendar"
	"yearcal/internal/classify"
	"yearcal/internal/itinerary"
	"yearcal/internal/model"
)

// Status says how much planning a trip still needs.
type Status string

const (
	StatusTodo    Status = "todo"
	StatusPending Status = "pending"
	StatusHasInfo Status = "has-info"
)

// Kind picks the trip icon.
type Kind string

const (
	KindPlain  Kind = ""
	KindFlight Kind = "flight"
	KindCar    Kind = "car"
	KindVisit  Kind = "visit"
)

const unnamed = "Unnamed Trip"

// Trip is an event enriched for the trip list. Nothing here is stored; it is
// rebuilt from the event and today's date on every request.
type Trip struct {
	model.CalendarEvent

	Status      Status `json:"tripStatus"`
	IsPast      bool   `json:"isPast"`
	IsVisit     bool   `json:"isVisit"`
	IsTentative bool   `json:"isTentative"`
	Kind        Kind   `json:"kind,omitempty"`
	Badge       string `json:"badge,omitempty"`

	DisplayName string         `json:"displayName"`
	DateRange   string         `json:"dateRange"`
	Minimap     [][]MinimapDay `json:"minimap,omitempty"`

	Itinerary   *itinerary.Itinerary `json:"itinerary,omitempty"`
	Preview     string               `json:"preview,omitempty"`
	HasMore     bool                 `json:"hasMore,omitempty"`
	ReturnLabel string               `json:"returnLabel,omitempty"`
}

var (
	reTripWord  = regexp.MustCompile(`(?i)trip`)
	reSeparator = regexp.MustCompile(`[-–—:]`)
	reSpaces    = regexp.MustCompile(`\s+`)
)

// StatusOf returns has-info when the description is non-empty, todo when the
// title carries "?", and pending otherwise. The description wins over "?".
func StatusOf(e model.CalendarEvent) Status {
	switch {
	case strings.TrimSpace(e.Description) != "":
		return StatusHasInfo
	case strings.Contains(e.Summary, "?"):
		return StatusTodo
	default:
		return StatusPending
	}
}

// IsPast reports whether the last day of e (EndDate minus one) is before the
// civil date of today.
func IsPast(e model.CalendarEvent, today time.Time) bool {
	last, err := calendar.AddDaysKey(e.EndDate, -1)
	if err != nil {
		return false
	}
	return last < calendar.FormatDateKey(today)
}

// DisplayName strips "trip", "?" and separator punctuation from title. Todo
// trips get a single trailing "?" back.
func DisplayName(title string, status Status) string {
	name := reTripWord.ReplaceAllString(title, "")
	name = strings.ReplaceAll(name, "?", "")
	name = reSeparator.ReplaceAllString(name, " ")
	name = strings.TrimSpace(reSpaces.ReplaceAllString(name, " "))
	if name == "" {
		name = unnamed
	}
	if status == StatusTodo {
		return name + "?"
	}
	return name
}

// Badge is the short status chip shown next to the name.
func Badge(status Status, title string) string {
	switch {
	case status == StatusTodo:
		return "Needs planning"
	case status == StatusPending:
		return "Needs info"
	case strings.Contains(title, "?"):
		return "Tentative"
	}
	return ""
}

// New enriches one event.
func New(e model.CalendarEvent, today time.Time) Trip {
	cat := classify.Of(e)
	t := Trip{
		CalendarEvent: e,
		Status:        StatusOf(e),
		IsPast:        IsPast(e, today),
		IsVisit:       cat.Has(classify.Visit),
		IsTentative:   cat.Has(classify.Tentative),
		DateRange:     FormatDateRange(e.StartDate, e.EndDate),
		Minimap:       MinimapWeeks(e.StartDate, e.EndDate, today),
	}
	t.DisplayName = DisplayName(e.Summary, t.Status)
	t.Badge = Badge(t.Status, e.Summary)

	if t.Status == StatusHasInfo {
		it := itinerary.Parse(e.Description, today)
		t.Itinerary = &it
		if !it.HasFlights() {
			t.Preview, t.HasMore = itinerary.Preview(it.Text, itinerary.PreviewLines)
		}
		if f, ok := it.ReturnFlight(); ok {
			t.ReturnLabel = f.Short()
		}
	}
	t.Kind = kindOf(t)
	return t
}

func kindOf(t Trip) Kind {
	switch {
	case t.IsVisit:
		return KindVisit
	case strings.Contains(strings.ToLower(t.Summary), "car"):
		return KindCar
	case t.Itinerary != nil && t.Itinerary.HasFlights():
		return KindFlight
	}
	return KindPlain
}

// List returns the trips among events, sorted by start date. Visits are
// classified by New but are not trips.
func List(events []model.CalendarEvent, today time.Time) []Trip {
	out := make([]Trip, 0)
	for _, e := range events {
		if !e.HasDates() {
			continue
		}
		cat := classify.Of(e)
		if !cat.Has(classify.Trip) {
			continue
		}
		out = append(out, New(e, today))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartDate != out[j].StartDate {
			return out[i].StartDate < out[j].StartDate
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Partition splits a sorted list into upcoming and past trips, keeping order.
func Partition(trips []Trip) (upcoming, past []Trip) {
	upcoming, past = make([]Trip, 0), make([]Trip, 0)
	for _, t := range trips {
		if t.IsPast {
			past = append(past, t)
		} else {
			upcoming = append(upcoming, t)
		}
	}
	return upcoming, past
}
