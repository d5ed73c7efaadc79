package translate

import (
	"fmt"
	"regexp"
	"strings"
)

// MT engines reorder or localize numerals, clock times, and acronyms. Spans
// matched here are masked with placeholder tokens before the provider call
// and restored verbatim afterward.

const ampm = `(?:A\.M\.|P\.M\.|[AP]M\b)`

var segmentPatterns = []*regexp.Regexp{
	// Ranges like "8:00 A.M. to 10:00 P.M." or "8 AM - 10 PM".
	regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s?` + ampm + `?\s?(?:to|-|–|—)\s?\d{1,2}(?::\d{2})?\s?` + ampm),
	// Single clock times with a marker: "8:00 AM", "5 PM".
	regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s?` + ampm + `|\b\d{1,2}\s?` + ampm),
	// Numeric dates and bare years: "10/09/2025", "2025".
	regexp.MustCompile(`\b(?:\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4})\b`),
	// All-caps acronyms.
	regexp.MustCompile(`\b[A-Z]{2,6}\b`),
}

// SegmentMap records masked literals by placeholder id.
type SegmentMap []string

// Protect replaces every protected span with a __T<n>__ placeholder.
// Earlier patterns take precedence; placeholders are never re-matched.
func Protect(text string) (string, SegmentMap) {
	var segs SegmentMap
	masked := text
	for _, re := range segmentPatterns {
		masked = re.ReplaceAllStringFunc(masked, func(match string) string {
			segs = append(segs, match)
			return fmt.Sprintf("__T%d__", len(segs)-1)
		})
	}
	return masked, segs
}

// Restore substitutes the original literals back for their placeholders.
func Restore(masked string, segs SegmentMap) string {
	out := masked
	for i, literal := range segs {
		out = strings.ReplaceAll(out, fmt.Sprintf("__T%d__", i), literal)
	}
	return out
}
