package itinerary

import "strings"

// PreviewLines is how many non-empty lines the plain-text fallback shows.
const PreviewLines = 2

// Preview returns the first n non-empty lines of text and whether more remain.
func Preview(text string, n int) (string, bool) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) <= n {
		return strings.Join(lines, "\n"), false
	}
	return strings.Join(lines[:n], "\n"), true
}
