package render

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// highlightClass matches the class names chroma and the code block wrapper emit.
var highlightClass = regexp.MustCompile(`^[a-zA-Z0-9 _-]+$`)

var buttonType = regexp.MustCompile(`^button$`)

// HTMLSanitizer strips scripts, event handlers, and javascript: URLs from
// rendered HTML. Safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer starts from the UGC policy and additionally keeps the
// class attributes used by highlighted code and the code block copy button.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(highlightClass).OnElements("pre", "code", "span", "div", "table", "tr", "td", "button")
	policy.AllowElements("button")
	policy.AllowAttrs("type").Matching(buttonType).OnElements("button")
	policy.AllowAttrs("data-copy").OnElements("button")
	policy.AllowAttrs("data-feedback-ms").Matching(bluemonday.Integer).OnElements("button")
	return &HTMLSanitizer{policy: policy}
}

// NewStrictHTMLSanitizer strips every tag, keeping text only.
func NewStrictHTMLSanitizer() *HTMLSanitizer {
	return &HTMLSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns html with unsafe markup removed.
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
