// Package classify tags events with the non-exclusive categories that drive
// decorations, trip lists and birthday badges.
package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"yearcal/internal/model"
)

// Category is a bit set. An event can be tentative and a trip at once.
type Category uint8

const (
	Tentative Category = 1 << iota
	Trip
	Visit
	Birthday

	// Plain is the empty set.
	Plain Category = 0
)

const visitPrefix = "visit:"

// birthdayKeywords covers English, Spanish and Catalan/Italian spellings.
// Matching is done on folded text, so accents and case are ignored.
var birthdayKeywords = []string{"birthday", "bday", "aniversario", "aniversari"}

// Has reports whether every bit of c2 is set in c.
func (c Category) Has(c2 Category) bool {
	return c2 != 0 && c&c2 == c2
}

// String lists the set members joined by "+", or "plain".
func (c Category) String() string {
	if c == Plain {
		return "plain"
	}
	var parts []string
	for _, p := range []struct {
		bit  Category
		name string
	}{
		{Tentative, "tentative"},
		{Trip, "trip"},
		{Visit, "visit"},
		{Birthday, "birthday"},
	} {
		if c&p.bit != 0 {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "+")
}

// MarshalText lets a Category appear as a readable string in JSON.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Of classifies an event by its title.
func Of(e model.CalendarEvent) Category {
	return Title(e.Summary)
}

// Title classifies a bare title.
func Title(title string) Category {
	folded := Fold(title)
	var c Category

	if strings.Contains(title, "?") {
		c |= Tentative
	}
	if strings.Contains(folded, "trip") {
		c |= Trip
	}
	if strings.HasPrefix(strings.TrimSpace(folded), visitPrefix) {
		c |= Visit
	}
	for _, kw := range birthdayKeywords {
		if strings.Contains(folded, kw) {
			c |= Birthday
			break
		}
	}
	return c
}

// IsTentative, IsTrip, IsVisit and IsBirthday are single-category shortcuts.
func IsTentative(e model.CalendarEvent) bool { return Of(e).Has(Tentative) }
func IsTrip(e model.CalendarEvent) bool      { return Of(e).Has(Trip) }
func IsVisit(e model.CalendarEvent) bool     { return Of(e).Has(Visit) }
func IsBirthday(e model.CalendarEvent) bool  { return Of(e).Has(Birthday) }

// Fold returns s case-folded with combining marks removed, so "Aniversário"
// and "ANIVERSARIO" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// ContainsFold reports whether s contains substr, ignoring case and accents.
func ContainsFold(s, substr string) bool {
	return strings.Contains(Fold(s), Fold(substr))
}

// DecorationColor picks the colour shown on a day already carrying existing.
// The first colour sticks, except that a trip or visit always overrides it.
func DecorationColor(existing string, cat Category, color string) string {
	if existing == "" {
		return color
	}
	if cat&(Trip|Visit) != 0 {
		return color
	}
	return existing
}
