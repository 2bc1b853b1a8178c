package content

import (
	"slices"

	"docsite/internal/domain/models/docs"
)

// Generated is a generated doc in the same shape as a static category,
// so navigation and rendering treat both alike.
type Generated struct {
	Doc      docs.GeneratedDoc
	Category docs.DocCategory
	pages    map[string]docs.PageContent
}

// FromGenerated builds a one-category view of doc. Sections are ordered by
// OrderIndex regardless of the order they are passed in.
func FromGenerated(doc docs.GeneratedDoc, sections []docs.GeneratedSection) *Generated {
	ordered := slices.Clone(sections)
	slices.SortStableFunc(ordered, func(a, b docs.GeneratedSection) int {
		return a.OrderIndex - b.OrderIndex
	})

	g := &Generated{
		Doc: doc,
		Category: docs.DocCategory{
			Title: doc.Topic,
			Slug:  doc.ID,
			Icon:  "BookOpen",
			Pages: make([]docs.DocPage, 0, len(ordered)),
		},
		pages: make(map[string]docs.PageContent, len(ordered)),
	}

	for _, s := range ordered {
		g.Category.Pages = append(g.Category.Pages, docs.DocPage{
			Title: s.Title,
			Slug:  s.Slug,
			Icon:  docs.NormalizeIcon(s.Icon),
		})
		g.pages[s.Slug] = docs.PageContent{
			Title:       s.Title,
			Description: doc.Description,
			Sections: []docs.ContentBlock{{
				ID:      s.Slug,
				Title:   s.Title,
				Content: s.Content,
			}},
		}
	}

	return g
}

// Navigation returns the doc as a single-category navigation tree.
func (g *Generated) Navigation() []docs.DocCategory {
	return []docs.DocCategory{g.Category}
}

// FirstSlug returns the slug of the first section, or "" for an empty doc.
func (g *Generated) FirstSlug() string {
	if len(g.Category.Pages) == 0 {
		return ""
	}
	return g.Category.Pages[0].Slug
}

// Resolve returns the page for slug. An empty slug selects the first section.
func (g *Generated) Resolve(slug string) (docs.PageContent, bool) {
	if slug == "" {
		slug = g.FirstSlug()
	}
	page, ok := g.pages[slug]
	return page, ok
}
