// Package validator scores generated decks on structure, legal accuracy,
// formatting, and relevance to the input.
package validator

import (
	"regexp"
	"strings"
)

// SpanKind is the semantic color of a markdown span. The markers are
// semantic, not visual: gold flags doctrines, red flags violations and
// offences, blue flags statutory provisions.
type SpanKind string

const (
	SpanGold SpanKind = "gold" // *…*
	SpanRed  SpanKind = "red"  // ~…~
	SpanBlue SpanKind = "blue" // _…_
)

// Span is one parsed markup region.
type Span struct {
	Kind SpanKind
	Text string
}

var spanRes = []struct {
	kind SpanKind
	re   *regexp.Regexp
}{
	{SpanGold, regexp.MustCompile(`\*([^*\n]+)\*`)},
	{SpanRed, regexp.MustCompile(`~([^~\n]+)~`)},
	{SpanBlue, regexp.MustCompile(`_([^_\n]+)_`)},
}

// ParseSpans extracts every colored span from s. Parsing happens once per
// string; downstream checks work on the typed span list.
func ParseSpans(s string) []Span {
	var spans []Span
	for _, sr := range spanRes {
		for _, m := range sr.re.FindAllStringSubmatch(s, -1) {
			spans = append(spans, Span{Kind: sr.kind, Text: strings.TrimSpace(m[1])})
		}
	}
	return spans
}

// StripMarkup removes span markers, leaving the plain text.
func StripMarkup(s string) string {
	for _, sr := range spanRes {
		s = sr.re.ReplaceAllString(s, "$1")
	}
	return s
}

// HasMarkup reports whether s contains any span markers.
func HasMarkup(s string) bool {
	for _, sr := range spanRes {
		if sr.re.MatchString(s) {
			return true
		}
	}
	return false
}
