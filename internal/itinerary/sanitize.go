// Package itinerary turns free-text trip descriptions (often HTML fragments
// pasted from booking emails) into structured flight legs. Parsing is best
// effort: anything it cannot recognise is left to the plain-text preview.
package itinerary

import (
	"regexp"
	"strings"
)

var (
	reBreak     = regexp.MustCompile(`(?i)<br\s*/?>`)
	reBlockEnd  = regexp.MustCompile(`(?i)</(?:p|div|li)>`)
	reAnchor    = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*["']?([^"'\s>]+)["']?[^>]*>(.*?)</a>`)
	reTag       = regexp.MustCompile(`(?s)<[^>]*>`)
	reBlankRuns = regexp.MustCompile(`\n{3,}`)
)

// entities is the fixed set of HTML entities calendar descriptions carry.
// Anything else is left verbatim.
var entities = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&apos;", "'",
	"&nbsp;", " ",
	"\u00a0", " ",
)

// Sanitize converts an HTML fragment to plain text. Line breaks become
// newlines, links become "text (href)" or the bare href, other tags are
// dropped and a fixed set of entities is decoded.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = reBreak.ReplaceAllString(s, "\n")
	s = reBlockEnd.ReplaceAllString(s, "\n")
	s = reAnchor.ReplaceAllStringFunc(s, unwrapAnchor)
	s = reTag.ReplaceAllString(s, "")
	s = entities.Replace(s)

	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	s = strings.Join(lines, "\n")
	s = reBlankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

func unwrapAnchor(m string) string {
	sub := reAnchor.FindStringSubmatch(m)
	if sub == nil {
		return m
	}
	href := sub[1]
	text := strings.TrimSpace(reTag.ReplaceAllString(sub[2], ""))
	if text == "" || text == href {
		return href
	}
	return text + " (" + href + ")"
}
