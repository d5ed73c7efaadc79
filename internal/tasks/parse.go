package tasks

import (
	"regexp"
	"strings"
)

// courseCodes are short subject abbreviations students quote alone, as in
// `homework "CD", "CN"`. When a message mentions one, parsing narrows to
// just those items.
var courseCodes = []string{"CD", "CN", "DMT"}

var (
	quotedRe       = regexp.MustCompile(`"([^"]{1,120})"`)
	keywordSplitRe = regexp.MustCompile(`(?i)homework\s*[:\-]|tasks?\s*[:\-]|to-?do\s*[:\-]|assignments?\s*[:\-]`)
	itemSplitRe    = regexp.MustCompile(`(?i)\band\b|,|\n|;|\x{2022}|\-`)
)

// ParseItems pulls todo titles out of free text. Quoted items win; otherwise
// the payload after a keyword marker like "homework:" is split on
// commas, newlines, bullets and the word "and".
func ParseItems(text string) []string {
	mentioned := mentionedCourseCodes(text)

	var quoted []string
	for _, m := range quotedRe.FindAllStringSubmatch(text, -1) {
		if s := strings.TrimSpace(m[1]); s != "" {
			quoted = append(quoted, s)
		}
	}
	if len(quoted) > 0 {
		return filterCourseCodes(quoted, mentioned)
	}

	payload := text
	if parts := keywordSplitRe.Split(text, -1); len(parts) > 1 {
		payload = strings.Join(parts[1:], " ")
	}
	var items []string
	for _, s := range itemSplitRe.Split(payload, -1) {
		s = strings.TrimSpace(s)
		if len(s) >= 2 && len(s) <= 140 {
			items = append(items, s)
		}
	}
	return filterCourseCodes(items, mentioned)
}

func mentionedCourseCodes(text string) []string {
	var hits []string
	for _, code := range courseCodes {
		re := regexp.MustCompile(`(?i)\b` + code + `\b`)
		if re.MatchString(text) {
			hits = append(hits, code)
		}
	}
	return hits
}

func filterCourseCodes(items, mentioned []string) []string {
	if len(mentioned) == 0 {
		return items
	}
	var kept []string
	for _, item := range items {
		for _, code := range mentioned {
			if strings.EqualFold(strings.TrimSpace(item), code) {
				kept = append(kept, item)
				break
			}
		}
	}
	return kept
}
