package itinerary

import (
	"regexp"
	"strings"
	"time"
)

// Location is one end of a flight leg.
type Location struct {
	City string `json:"city,omitempty"`
	Code string `json:"code"`
	Time string `json:"time,omitempty"`

	// Date is the short date as written ("Mar 22"); Day is the resolved
	// YYYY-MM-DD key, empty when no date was given.
	Date string `json:"date,omitempty"`
	Day  string `json:"day,omitempty"`
}

var (
	reFlight    = regexp.MustCompile(`^(?i)([a-z0-9]{2})\s*(\d{1,4})\b`)
	reCode      = regexp.MustCompile(`^[A-Z]{3}$`)
	reTime      = regexp.MustCompile(`^(?i)\d{1,2}:\d{2}(?:am|pm)?$`)
	reMeridiem  = regexp.MustCompile(`^(?i)(?:am|pm)$`)
	reDay       = regexp.MustCompile(`^\d{1,2}$`)
	reParen     = regexp.MustCompile(`\([^)]*\)`)
	reParenIATA = regexp.MustCompile(`\(\s*([A-Z]{3})\s*\)`)
)

// parseFlightNumber reads "UA 2312" or "UA2312".
func parseFlightNumber(s string) (airline, number string, ok bool) {
	m := reFlight.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return strings.ToUpper(m[1]), m[2], true
}

// parseLocation reads "<city> CODE TIME[, Mon D]" where the city is optional.
// The short date is resolved against now.
func parseLocation(s string, now time.Time) (Location, bool) {
	// "(SFO)" is unwrapped to its code; other parenthesised notes are dropped.
	s = reParenIATA.ReplaceAllString(s, " $1 ")
	tokens := tokenize(reParen.ReplaceAllString(s, " "))
	if len(tokens) == 0 {
		return Location{}, false
	}

	codeAt := -1
	for i, tok := range tokens {
		if reCode.MatchString(tok) && i+1 < len(tokens) && reTime.MatchString(timeToken(tokens, i+1)) {
			codeAt = i
			break
		}
	}
	if codeAt < 0 {
		// No time: settle for the last airport-looking token.
		for i := len(tokens) - 1; i >= 0; i-- {
			if reCode.MatchString(tokens[i]) {
				codeAt = i
				break
			}
		}
	}
	if codeAt < 0 {
		return Location{}, false
	}

	loc := Location{
		City: strings.Join(tokens[:codeAt], " "),
		Code: tokens[codeAt],
	}

	rest := tokens[codeAt+1:]
	if len(rest) > 0 {
		if t := timeToken(rest, 0); reTime.MatchString(t) {
			loc.Time = strings.ToLower(t)
			rest = rest[1:]
			if len(rest) > 0 && reMeridiem.MatchString(rest[0]) {
				rest = rest[1:]
			}
		}
	}
	if len(rest) >= 2 && isMonth(rest[0]) && reDay.MatchString(rest[1]) {
		loc.Date = rest[0] + " " + rest[1]
		if d, ok := ResolveShortDate(loc.Date, now); ok {
			loc.Day = d.Format("2006-01-02")
		}
	}
	return loc, true
}

// tokenize splits on whitespace and commas.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// timeToken joins "4:30" "pm" into "4:30pm".
func timeToken(tokens []string, i int) string {
	t := tokens[i]
	if i+1 < len(tokens) && reMeridiem.MatchString(tokens[i+1]) {
		t += tokens[i+1]
	}
	return t
}

func isMonth(tok string) bool {
	if len(tok) != 3 {
		return false
	}
	_, err := time.Parse("Jan", tok)
	return err == nil
}
