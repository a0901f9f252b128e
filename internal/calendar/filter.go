package calendar

import (
	"strings"

	"yearcal/internal/classify"
	"yearcal/internal/model"
)

// ParseExcludeTerms splits a comma-separated list, trimming blanks.
func ParseExcludeTerms(input string) []string {
	var terms []string
	for _, part := range strings.Split(input, ",") {
		if t := strings.TrimSpace(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// FilterExcluded drops events whose title contains any of terms, ignoring
// case. The input slice is not modified.
func FilterExcluded(events []model.CalendarEvent, terms []string) []model.CalendarEvent {
	folded := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			folded = append(folded, classify.Fold(t))
		}
	}
	if len(folded) == 0 {
		return events
	}

	out := make([]model.CalendarEvent, 0, len(events))
	for _, e := range events {
		title := classify.Fold(e.Summary)
		excluded := false
		for _, t := range folded {
			if strings.Contains(title, t) {
				excluded = true
				break
			}
		}
		if !excluded {
			out = append(out, e)
		}
	}
	return out
}
