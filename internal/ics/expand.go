package ics

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "yearcal/internal/log"
	"yearcal/internal/model"
)

const (
	defaultMaxOccurrencesPerEvent = 5000
	keyLayout                     = "2006-01-02"
)

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// RangeStart / RangeEnd bound the dates of interest, end exclusive.
	// Only the calendar date is used.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single RRULE. Zero means
	// defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int

	// FeedColor is used when the source has no configured colour.
	FeedColor string
}

// ExpandResult wraps the expanded events and the UIDs that hit the cap.
type ExpandResult struct {
	Events          []model.CalendarEvent
	TruncatedEvents []string
}

// Expand turns parsed VEVENTs into CalendarEvents overlapping the range.
// Recurring events produce one CalendarEvent per instance with ID
// "<uid>_<yyyymmdd>"; RECURRENCE-ID overrides replace matching instances.
func Expand(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	rangeStart := civil(cfg.RangeStart)
	rangeEnd := civil(cfg.RangeEnd)
	if !rangeEnd.After(rangeStart) {
		return result, errors.New("expand: RangeEnd is not after RangeStart")
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	uids := make([]string, 0)

	for _, ev := range events {
		if ev.IsOverride() {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
			continue
		}
		if _, ok := baseByUID[ev.UID]; !ok {
			uids = append(uids, ev.UID)
		}
		baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
	}
	// Overrides without a base event are shown on their own.
	for uid, ovs := range overridesByUID {
		if _, ok := baseByUID[uid]; ok {
			continue
		}
		for _, ov := range ovs {
			if overlaps(ov.Start, ov.End, rangeStart, rangeEnd) {
				result.Events = append(result.Events, toEvent(ov, ov.UID+"_"+ov.Recurrence.Format(dateLayout), cfg.FeedColor))
			}
		}
	}

	for _, uid := range uids {
		truncated := false
		for _, ev := range baseByUID[uid] {
			out, hitCap := expandEvent(ev, overridesByUID[uid], rangeStart, rangeEnd, cfg)
			truncated = truncated || hitCap
			result.Events = append(result.Events, out...)
		}
		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Warn("expand: truncated occurrences", "uid", uid, "cap", cfg.MaxOccurrencesPerEvent)
		}
	}

	sort.SliceStable(result.Events, func(i, j int) bool {
		if result.Events[i].StartDate != result.Events[j].StartDate {
			return result.Events[i].StartDate < result.Events[j].StartDate
		}
		return result.Events[i].ID < result.Events[j].ID
	})
	return result, nil
}

func expandEvent(ev ParsedEvent, overrides []ParsedEvent, rangeStart, rangeEnd time.Time, cfg ExpandConfig) ([]model.CalendarEvent, bool) {
	if ev.RawRRule == "" {
		if !overlaps(ev.Start, ev.End, rangeStart, rangeEnd) {
			return nil, false
		}
		return []model.CalendarEvent{toEvent(ev, ev.UID, cfg.FeedColor)}, false
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return nil, false
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex)
	}

	days := ev.Days()
	// Instances starting before the range can still spill into it.
	starts := set.Between(rangeStart.AddDate(0, 0, -days+1), rangeEnd, true)

	hitCap := false
	if len(starts) > cfg.MaxOccurrencesPerEvent {
		starts = starts[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	out := make([]model.CalendarEvent, 0, len(starts))
	for _, s := range starts {
		s = civil(s)
		instance := ev
		instance.Start = s
		instance.End = s.AddDate(0, 0, days)

		if o, ok := findOverride(overrides, s); ok {
			instance = o
		}
		if !overlaps(instance.Start, instance.End, rangeStart, rangeEnd) {
			continue
		}
		out = append(out, toEvent(instance, ev.UID+"_"+s.Format(dateLayout), cfg.FeedColor))
	}
	return out, hitCap
}

// findOverride finds the override whose RECURRENCE-ID falls on date.
func findOverride(overrides []ParsedEvent, date time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && civil(*ov.Recurrence).Equal(date) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func toEvent(ev ParsedEvent, id, feedColor string) model.CalendarEvent {
	out := model.CalendarEvent{
		ID:              id,
		Summary:         ev.Summary,
		Description:     ev.Description,
		StartDate:       ev.Start.Format(keyLayout),
		EndDate:         ev.End.Format(keyLayout),
		Status:          ev.Status,
		CalendarID:      ev.Source.ID,
		BackgroundColor: ev.Source.Color,
		HTMLLink:        ev.URL,
	}
	if out.BackgroundColor == "" {
		out.BackgroundColor = feedColor
	}

	// COLOR is either a palette key or an explicit colour.
	switch {
	case model.IsPaletteKey(ev.Color):
		out.ColorID = ev.Color
	case strings.HasPrefix(ev.Color, "#"):
		out.BackgroundColor = normalizeHex(ev.Color)
	}
	return out
}

// civil drops the clock and location, keeping the calendar date as UTC midnight.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// YearRange returns [Jan 1 of from, Jan 1 of to+1) for ExpandConfig.
func YearRange(from, to int) (time.Time, time.Time, error) {
	if to < from {
		return time.Time{}, time.Time{}, fmt.Errorf("expand: year range %d..%d", from, to)
	}
	return time.Date(from, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(to+1, time.January, 1, 0, 0, 0, 0, time.UTC), nil
}
