package model

import (
	"strconv"
	"strings"
)

// DefaultColor is used when neither the event nor its calendar carries a colour.
const DefaultColor = "#a4bdfc"

// EventColors maps Google Calendar colour IDs to their pastel background hex.
var EventColors = map[string]string{
	"1":  "#a4bdfc", // lavender
	"2":  "#7ae7bf", // sage
	"3":  "#dbadff", // grape
	"4":  "#ff887c", // flamingo
	"5":  "#fbd75b", // banana
	"6":  "#ffb878", // tangerine
	"7":  "#46d6db", // peacock
	"8":  "#e1e1e1", // graphite
	"9":  "#5484ed", // blueberry
	"10": "#51b749", // basil
	"11": "#dc2127", // tomato
}

// ColorFor resolves an event's bar colour: its own colour ID first, then the
// calendar background, then DefaultColor. An unknown colour ID resolves to
// DefaultColor rather than falling through to the calendar colour.
func ColorFor(e CalendarEvent) string {
	if e.ColorID != "" {
		if c, ok := EventColors[e.ColorID]; ok {
			return c
		}
		return DefaultColor
	}
	if e.BackgroundColor != "" {
		return e.BackgroundColor
	}
	return DefaultColor
}

// PrefersWhiteText reports whether text drawn on hexColor should be white.
// Anything that is not a 6-digit hex colour gets dark text.
func PrefersWhiteText(hexColor string) bool {
	hex := strings.TrimPrefix(hexColor, "#")
	if len(hex) != 6 {
		return false
	}

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	r := float64((rgb >> 16) & 0xff)
	g := float64((rgb >> 8) & 0xff)
	b := float64(rgb & 0xff)

	luminance := (0.299*r + 0.587*g + 0.114*b) / 255
	return luminance < 0.5
}

// IsPaletteKey reports whether id is one of the EventColors keys.
func IsPaletteKey(id string) bool {
	_, ok := EventColors[id]
	return ok
}
