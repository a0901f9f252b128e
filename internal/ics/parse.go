package ics

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "yearcal/internal/log"
	"yearcal/internal/model"
)

// ErrEmptyBody is returned for a zero-length ICS payload.
var ErrEmptyBody = errors.New("ics: empty body")

const (
	dateLayout   = "20060102"
	untitled     = "(No title)"
	calColorProp = "X-APPLE-CALENDAR-COLOR"
)

var reDuration = regexp.MustCompile(`^P(?:(\d+)W)?(?:(\d+)D)?`)

// ParsedEvent is an all-day VEVENT before recurrence expansion. Start and End
// are UTC midnights; End is exclusive.
type ParsedEvent struct {
	Source Source

	UID string
	Seq int

	Summary     string
	Description string
	Status      model.Status
	Color       string
	URL         string

	Start time.Time
	End   time.Time

	RawRRule   string
	ExDates    []time.Time
	Recurrence *time.Time // RECURRENCE-ID of an overridden instance
}

// IsOverride reports whether this VEVENT replaces one recurring instance.
func (p ParsedEvent) IsOverride() bool {
	return p.Recurrence != nil
}

// Days returns the event length in days.
func (p ParsedEvent) Days() int {
	return int(p.End.Sub(p.Start).Hours() / 24)
}

// ParseICS parses a single ICS payload into all-day events.
//
//   - Timed (DATE-TIME) events are skipped; only whole-day events are laid out.
//   - CANCELLED events are skipped.
//   - A missing DTEND means a one-day event; DURATION in days/weeks is honoured.
//   - RRULE/EXDATE/RECURRENCE-ID are recorded for Expand.
//
// The second return value is the calendar-level colour, if the feed has one.
func ParseICS(src Source, body []byte) ([]ParsedEvent, string, error) {
	if len(body) == 0 {
		return nil, "", ErrEmptyBody
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, "", fmt.Errorf("ics: parse: %w", err)
	}

	feedColor := ""
	for _, p := range cal.CalendarProperties {
		if strings.EqualFold(p.IANAToken, calColorProp) {
			feedColor = normalizeHex(p.Value)
		}
	}

	events := make([]ParsedEvent, 0)
	skipped := 0

	for _, comp := range cal.Events() {
		ev, ok, perr := parseVEvent(src, comp)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Warn("ics vevent skipped", "id", src.ID, "err", perr)
			continue
		}
		if !ok {
			skipped++
			continue
		}
		events = append(events, ev)
	}

	appLog.Debug("ics parse completed", "id", src.ID, "event_count", len(events), "skipped", skipped)
	return events, feedColor, nil
}

// parseVEvent returns ok=false for events that are valid but not shown.
func parseVEvent(src Source, ve *ical.VEvent) (ParsedEvent, bool, error) {
	out := ParsedEvent{Source: src, Status: model.StatusConfirmed}

	uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uidProp == nil || uidProp.Value == "" {
		return out, false, errors.New("missing UID")
	}
	out.UID = uidProp.Value

	if p := ve.GetProperty(ical.ComponentPropertyStatus); p != nil {
		switch strings.ToUpper(strings.TrimSpace(p.Value)) {
		case "CANCELLED":
			return out, false, nil
		case "TENTATIVE":
			out.Status = model.StatusTentative
		}
	}

	dtStart := ve.GetProperty(ical.ComponentPropertyDtStart)
	if dtStart == nil {
		return out, false, fmt.Errorf("%s: missing DTSTART", out.UID)
	}
	if !isDateValue(dtStart) {
		return out, false, nil
	}
	start, err := parseDate(dtStart.Value)
	if err != nil {
		return out, false, fmt.Errorf("%s: DTSTART: %w", out.UID, err)
	}
	out.Start = start
	out.End = start.AddDate(0, 0, 1)

	if p := ve.GetProperty(ical.ComponentPropertyDtEnd); p != nil {
		end, err := parseDate(p.Value)
		if err != nil {
			return out, false, fmt.Errorf("%s: DTEND: %w", out.UID, err)
		}
		if end.After(start) {
			out.End = end
		}
	} else if p := ve.GetProperty("DURATION"); p != nil {
		if days := durationDays(p.Value); days > 0 {
			out.End = start.AddDate(0, 0, days)
		}
	}

	if seqProp := ve.GetProperty(ical.ComponentPropertySequence); seqProp != nil {
		if n, err := strconv.Atoi(strings.TrimSpace(seqProp.Value)); err == nil {
			out.Seq = n
		}
	}

	out.Summary = untitled
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil && strings.TrimSpace(p.Value) != "" {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty("URL"); p != nil {
		out.URL = p.Value
	}
	if p := ve.GetProperty("COLOR"); p != nil {
		out.Color = strings.TrimSpace(p.Value)
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	// EXDATE may repeat and may hold a comma-separated list.
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			if t, err := parseDate(part); err == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, err := parseDate(p.Value); err == nil {
			out.Recurrence = &t
		}
	}

	return out, true, nil
}

// isDateValue reports VALUE=DATE or a bare YYYYMMDD value.
func isDateValue(p *ical.IANAProperty) bool {
	if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
		return true
	}
	return !strings.Contains(p.Value, "T")
}

// parseDate reads the date part of a DATE or DATE-TIME value as UTC midnight.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) < len(dateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q", v)
	}
	return time.Parse(dateLayout, v[:len(dateLayout)])
}

// durationDays reads the whole-day part of an ISO 8601 duration.
func durationDays(v string) int {
	m := reDuration.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return 0
	}
	weeks, _ := strconv.Atoi(m[1])
	days, _ := strconv.Atoi(m[2])
	return weeks*7 + days
}

func normalizeHex(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == 9 && strings.HasPrefix(v, "#") {
		// #RRGGBBAA
		return v[:7]
	}
	return v
}
