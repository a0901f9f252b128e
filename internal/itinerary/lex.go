package itinerary

import "strings"

type lineKind int

const (
	lineText lineKind = iota
	lineBlank
	lineHeader
	lineFlight
	lineDeparture
	lineArrival
	lineExtra
)

// line is one labelled line of a description. value holds the text after
// the label, or the header name for lineHeader.
type line struct {
	kind  lineKind
	label string
	value string
	raw   string
}

// extraLabels are blocks that are cut out before flight parsing.
var extraLabels = []string{"hotel", "car rental"}

var fieldLabels = []struct {
	prefix string
	kind   lineKind
}{
	{"flight:", lineFlight},
	{"departure:", lineDeparture},
	{"arrival:", lineArrival},
}

// lex splits sanitised text into labelled lines.
func lex(text string) []line {
	raw := strings.Split(text, "\n")
	out := make([]line, 0, len(raw))
	for _, r := range raw {
		out = append(out, lexLine(r))
	}
	return out
}

func lexLine(r string) line {
	s := strings.TrimSpace(r)
	if s == "" {
		return line{kind: lineBlank, raw: r}
	}
	lower := strings.ToLower(s)

	for _, f := range fieldLabels {
		if strings.HasPrefix(lower, f.prefix) {
			return line{kind: f.kind, value: strings.TrimSpace(s[len(f.prefix):]), raw: r}
		}
	}
	for _, name := range extraLabels {
		if strings.HasPrefix(lower, name+":") {
			return line{kind: lineExtra, label: name, value: strings.TrimSpace(s[len(name)+1:]), raw: r}
		}
	}
	if strings.HasSuffix(s, ":") && len(s) > 1 && !strings.Contains(s[:len(s)-1], ":") {
		return line{kind: lineHeader, label: strings.TrimSpace(s[:len(s)-1]), raw: r}
	}
	return line{kind: lineText, value: s, raw: r}
}

// startsBlock reports whether l ends a labelled extras block.
func (l line) startsBlock() bool {
	switch l.kind {
	case lineBlank, lineHeader, lineFlight, lineDeparture, lineArrival, lineExtra:
		return true
	}
	return false
}
