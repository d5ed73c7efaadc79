package lang

import "strings"

// Unicode block per supported non-Latin script.
type scriptRange struct {
	code string
	lo   rune
	hi   rune
}

var scriptRanges = []scriptRange{
	{"hi", 0x0900, 0x097F}, // Devanagari
	{"gu", 0x0A80, 0x0AFF},
	{"ta", 0x0B80, 0x0BFF},
	{"te", 0x0C00, 0x0C7F},
	{"kn", 0x0C80, 0x0CFF},
}

// Romanized vocabulary per language for ASCII inputs. A language wins with
// two keyword hits, or one hit when no other language scores at all.
// Ordered so ties resolve the same way on every run.
var romanizedLexicon = []struct {
	code  string
	words []string
}{
	{"hi", []string{"kya", "kaise", "kab", "kyun", "haan", "nahi", "shukriya", "dhanyavad", "namaste"}},
	{"te", []string{"eppudu", "ela", "ekkada", "emi", "ledu", "namaskaram", "meeru", "teravata"}},
	{"ta", []string{"eppo", "eppadi", "enna", "illai", "nandri", "vanakkam", "unga"}},
	{"gu", []string{"kyare", "kem", "kevi", "nathi", "dhanyavaad", "namaskar", "tamne"}},
	{"kn", []string{"yavaga", "hegide", "elli", "illa", "dhanyavada", "namaskara", "neevu"}},
}

// DetectScript identifies the language by Unicode block for non-Latin text.
// Returns "" when no known script is present.
func DetectScript(text string) string {
	for _, r := range text {
		for _, s := range scriptRanges {
			if r >= s.lo && r <= s.hi {
				return s.code
			}
		}
	}
	return ""
}

// DetectRomanized scores ASCII text against per-language keyword lexicons.
// Returns "" for non-ASCII input or when no language scores high enough.
func DetectRomanized(text string) string {
	for _, r := range text {
		if r > 0x7F {
			return ""
		}
	}
	lower := strings.ToLower(text)

	bestCode, bestScore, runnerUp := "", 0, 0
	for _, lex := range romanizedLexicon {
		score := 0
		for _, w := range lex.words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > bestScore {
			runnerUp = bestScore
			bestCode, bestScore = lex.code, score
		} else if score > runnerUp {
			runnerUp = score
		}
	}
	if bestScore >= 2 {
		return bestCode
	}
	if bestScore == 1 && runnerUp == 0 {
		return bestCode
	}
	return ""
}

// DetectHeuristic combines script and romanized detection, defaulting to en.
func DetectHeuristic(text string) string {
	if code := DetectScript(text); code != "" {
		return code
	}
	if code := DetectRomanized(text); code != "" {
		return code
	}
	return Default
}
