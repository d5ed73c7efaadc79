package lang

import "strings"

// Default is the pivot language all retrieval runs in.
const Default = "en"

// Supported lists every language the assistant can converse in.
var Supported = []string{"en", "hi", "te", "gu", "ta", "kn"}

var names = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"te": "Telugu",
	"gu": "Gujarati",
	"ta": "Tamil",
	"kn": "Kannada",
}

var aliases = map[string]string{
	"en": "en", "english": "en",
	"hi": "hi", "hindi": "hi",
	"te": "te", "telugu": "te",
	"gu": "gu", "gujarati": "gu",
	"ta": "ta", "tamil": "ta",
	"kn": "kn", "kannada": "kn",
}

// IsSupported reports whether code is one of the conversational languages.
func IsSupported(code string) bool {
	_, ok := names[code]
	return ok
}

// Normalize maps a code or English language name to a supported code.
// Returns "" when the input names no supported language.
func Normalize(input string) string {
	return aliases[strings.ToLower(strings.TrimSpace(input))]
}

// Name returns the English name for a supported code, or the code itself.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}
