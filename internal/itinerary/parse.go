package itinerary

import (
	"regexp"
	"strings"
	"time"
)

// Flight is one leg. A flight is kept when at least one of its number,
// departure or arrival parsed.
type Flight struct {
	Label     string    `json:"label,omitempty"`
	Airline   string    `json:"airline,omitempty"`
	Number    string    `json:"flightNumber,omitempty"`
	Departure *Location `json:"departure,omitempty"`
	Arrival   *Location `json:"arrival,omitempty"`
}

// Section groups the flights under one header such as "Outbound" or "Return".
// The leading section has an empty label.
type Section struct {
	Label   string   `json:"label,omitempty"`
	Flights []Flight `json:"flights"`
}

// Itinerary is the structured reading of a description. When HasFlights is
// false callers show Preview(Text) instead.
type Itinerary struct {
	Confirmation string    `json:"confirmation,omitempty"`
	Sections     []Section `json:"sections,omitempty"`
	Hotel        string    `json:"hotel,omitempty"`
	CarRental    string    `json:"carRental,omitempty"`
	EmailLink    string    `json:"emailLink,omitempty"`
	Text         string    `json:"text"`
}

var reConfirmation = regexp.MustCompile(`(?i:confirmation)(?:\s+(?i:code|number|#))?[:\s#]+([A-Z0-9]{5,8})\b`)

// Parse reads a raw event description. It never fails: unrecognised input
// yields an Itinerary without flights whose Text is the sanitised description.
func Parse(description string, now time.Time) Itinerary {
	it := Itinerary{EmailLink: ExtractGmailLink(description)}
	text := Sanitize(StripGmailLink(description))
	it.Text = text
	if text == "" {
		return it
	}

	if m := reConfirmation.FindStringSubmatch(text); m != nil {
		it.Confirmation = m[1]
	}

	lines, extras := cutExtras(lex(text))
	it.Hotel = extras["hotel"]
	it.CarRental = extras["car rental"]
	it.Sections = parseSections(lines, now)
	return it
}

// cutExtras removes labelled blocks (Hotel, Car Rental) so their text never
// reaches the flight grammar. A block runs until a blank line or the next
// labelled line.
func cutExtras(lines []line) ([]line, map[string]string) {
	extras := make(map[string]string)
	out := make([]line, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		l := lines[i]
		if l.kind != lineExtra {
			out = append(out, l)
			continue
		}
		var parts []string
		if l.value != "" {
			parts = append(parts, l.value)
		}
		for i+1 < len(lines) && !lines[i+1].startsBlock() {
			i++
			parts = append(parts, strings.TrimSpace(lines[i].raw))
		}
		if _, seen := extras[l.label]; !seen {
			extras[l.label] = strings.Join(parts, "\n")
		}
	}
	return out, extras
}

func parseSections(lines []line, now time.Time) []Section {
	var (
		sections []Section
		cur      = Section{}
		flight   *Flight
	)

	flush := func() {
		if flight != nil && flight.valid() {
			cur.Flights = append(cur.Flights, *flight)
		}
		flight = nil
	}
	closeSection := func() {
		flush()
		if len(cur.Flights) > 0 {
			sections = append(sections, cur)
		}
	}
	ensure := func() *Flight {
		if flight == nil {
			flight = &Flight{Label: cur.Label}
		}
		return flight
	}

	for _, l := range lines {
		switch l.kind {
		case lineHeader:
			// A header after flights opens a new section; before any flight it
			// only names the current one.
			if flight != nil || len(cur.Flights) > 0 {
				closeSection()
				cur = Section{}
			}
			cur.Label = l.label

		case lineFlight:
			flush()
			f := ensure()
			if airline, number, ok := parseFlightNumber(l.value); ok {
				f.Airline, f.Number = airline, number
			}

		case lineDeparture:
			if flight != nil && flight.Departure != nil {
				flush()
			}
			if loc, ok := parseLocation(l.value, now); ok {
				ensure().Departure = &loc
			}

		case lineArrival:
			if flight != nil && flight.Arrival != nil {
				flush()
			}
			if loc, ok := parseLocation(l.value, now); ok {
				ensure().Arrival = &loc
			}
		}
	}
	closeSection()
	return sections
}

func (f *Flight) valid() bool {
	return f.Number != "" || f.Departure != nil || f.Arrival != nil
}

// Short renders the compact bar label, e.g. "UA 2312 12:05am".
func (f Flight) Short() string {
	parts := make([]string, 0, 3)
	if f.Airline != "" || f.Number != "" {
		parts = append(parts, strings.TrimSpace(f.Airline+" "+f.Number))
	}
	if f.Departure != nil && f.Departure.Time != "" {
		parts = append(parts, f.Departure.Time)
	}
	return strings.Join(parts, " ")
}

// HasFlights reports whether any flight structure was recognised.
func (it Itinerary) HasFlights() bool {
	return len(it.Sections) > 0
}

// Flights returns every flight across sections in order.
func (it Itinerary) Flights() []Flight {
	var out []Flight
	for _, s := range it.Sections {
		out = append(out, s.Flights...)
	}
	return out
}

// Section returns the first section whose label matches, ignoring case.
func (it Itinerary) Section(label string) (Section, bool) {
	for _, s := range it.Sections {
		if strings.EqualFold(s.Label, label) {
			return s, true
		}
	}
	return Section{}, false
}

// ReturnFlight returns the first flight of the "Return" section.
func (it Itinerary) ReturnFlight() (Flight, bool) {
	s, ok := it.Section("Return")
	if !ok || len(s.Flights) == 0 {
		return Flight{}, false
	}
	return s.Flights[0], true
}
