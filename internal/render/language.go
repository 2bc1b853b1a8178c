package render

import "strings"

// languageAliases maps shorthand fence identifiers onto highlighter grammar names.
var languageAliases = map[string]string{
	"ts":    "typescript",
	"js":    "javascript",
	"py":    "python",
	"sh":    "bash",
	"shell": "bash",
	"json":  "json",
	"jsx":   "jsx",
	"tsx":   "tsx",
}

// CanonicalLanguage normalizes a code fence language. Unknown identifiers are
// returned lower-cased.
func CanonicalLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if canonical, ok := languageAliases[lang]; ok {
		return canonical
	}
	return lang
}
