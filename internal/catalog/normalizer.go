package catalog

import (
	"regexp"
	"strings"
)

// modelAliases maps normalized user text to canonical price model keys.
// The table is static configuration and is not user-editable.
var modelAliases = map[string]string{
	"14pro":      "14pro",
	"14 pro":     "14pro",
	"14promax":   "14promax",
	"14 pro max": "14promax",
	"13 pro max": "13promax",
	"13promax":   "13promax",
	"15 pro max": "15promax",
	"15promax":   "15promax",
	"12 pro max": "12promax",
	"12promax":   "12promax",
	"15 pro":     "15pro",
	"15pro":      "15pro",
	"16 pro":     "16pro",
	"16 pro max": "16promax",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize resolves free-text device model input to a canonical model key.
// Internal whitespace runs collapse to single spaces before the alias lookup.
// Unknown input returns ok=false; callers re-prompt with AliasHint.
func Normalize(text string) (string, bool) {
	key := whitespaceRun.ReplaceAllString(strings.TrimSpace(strings.ToLower(text)), " ")
	if key == "" {
		return "", false
	}
	model, ok := modelAliases[key]
	return model, ok
}

// AliasHint lists the supported model spellings for re-prompt messages.
func AliasHint() string {
	return "14pro, 14 pro max, 13 pro max, 15 pro max, 12 pro max, 15 pro, 16 pro, 16 pro max"
}
