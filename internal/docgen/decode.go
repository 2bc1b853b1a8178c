// Package docgen turns the raw text a model returns into validated
// documentation records.
package docgen

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
)

// Generation is a decoded, normalized generation result.
type Generation struct {
	Description string                  `json:"description"`
	Sections    []docs.GeneratedSection `json:"sections"`
}

type rawSection struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Icon    string `json:"icon"`
	Content string `json:"content"`
}

// StripFence removes a surrounding Markdown code fence (```json or ```) from s.
// Text without a fence is returned trimmed.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = s[len("```json"):]
	case strings.HasPrefix(s, "```"):
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// Decode parses a model reply into a Generation.
//
// The reply must be a JSON object whose "sections" member is an array of
// objects. Sections are normalized: OrderIndex is the array position, a
// missing slug is derived from the title, duplicate slugs get a numeric
// suffix, and unknown icons become docs.DefaultIcon.
func Decode(text string) (*Generation, error) {
	body := StripFence(text)
	if !gjson.Valid(body) {
		return nil, &domain.MalformedGenerationError{Reason: "response is not valid JSON"}
	}

	root := gjson.Parse(body)
	if !root.IsObject() {
		return nil, &domain.MalformedGenerationError{Reason: "response is not a JSON object"}
	}
	return decodeObject(root)
}

func decodeObject(root gjson.Result) (*Generation, error) {
	sections := root.Get("sections")
	if !sections.IsArray() {
		return nil, &domain.MalformedGenerationError{Reason: "invalid documentation structure: sections is not an array"}
	}

	gen := &Generation{Description: root.Get("description").String()}
	seen := make(map[string]int)

	for i, item := range sections.Array() {
		if !item.IsObject() {
			return nil, &domain.MalformedGenerationError{Reason: fmt.Sprintf("section %d is not an object", i)}
		}

		var raw rawSection
		if err := json.Unmarshal([]byte(item.Raw), &raw); err != nil {
			return nil, &domain.MalformedGenerationError{Reason: fmt.Sprintf("section %d", i), Err: err}
		}

		title := strings.TrimSpace(raw.Title)
		if title == "" {
			title = "Section " + strconv.Itoa(i+1)
		}

		slug := Slugify(raw.Slug)
		if slug == "" {
			slug = Slugify(title)
		}
		if slug == "" {
			slug = "section-" + strconv.Itoa(i+1)
		}
		slug = uniqueSlug(slug, seen)

		gen.Sections = append(gen.Sections, docs.GeneratedSection{
			Slug:       slug,
			Title:      title,
			Content:    raw.Content,
			Icon:       docs.NormalizeIcon(raw.Icon),
			OrderIndex: i,
		})
	}

	return gen, nil
}

func uniqueSlug(slug string, seen map[string]int) string {
	n := seen[slug]
	seen[slug] = n + 1
	if n == 0 {
		return slug
	}
	for {
		n++
		candidate := slug + "-" + strconv.Itoa(n)
		if seen[candidate] == 0 {
			seen[candidate] = 1
			seen[slug] = n
			return candidate
		}
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	s = nonSlugChars.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
