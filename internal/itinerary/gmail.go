package itinerary

import (
	"regexp"
	"strings"
)

var (
	reGmailHref   = regexp.MustCompile(`(?i)href=["']?(https?://mail\.google\.com[^"'\s<>]*)`)
	reGmailPlain  = regexp.MustCompile(`(?i)(https?://mail\.google\.com[^\s<>"']*)`)
	reGmailAnchor = regexp.MustCompile(`(?is)<a[^>]*href=["']?https?://mail\.google\.com[^"']*["']?[^>]*>.*?</a>`)
)

// ExtractGmailLink returns the first mail.google.com URL in description,
// preferring one inside an href attribute.
func ExtractGmailLink(description string) string {
	if m := reGmailHref.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	if m := reGmailPlain.FindStringSubmatch(description); m != nil {
		return m[1]
	}
	return ""
}

// StripGmailLink removes Gmail anchors and bare Gmail URLs. Lines emptied by
// the removal are dropped; paragraph breaks elsewhere are kept.
func StripGmailLink(description string) string {
	if description == "" {
		return ""
	}
	cleaned := reGmailAnchor.ReplaceAllString(description, "\x00")
	cleaned = reGmailPlain.ReplaceAllString(cleaned, "\x00")

	lines := strings.Split(strings.ReplaceAll(cleaned, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if !strings.Contains(l, "\x00") {
			out = append(out, l)
			continue
		}
		l = strings.TrimSpace(strings.ReplaceAll(l, "\x00", ""))
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
