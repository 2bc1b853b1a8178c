// Package content holds the static documentation catalog and maps both
// static and generated docs onto a single page shape.
package content

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"docsite/internal/domain/models/docs"
)

//go:embed catalog/*.yaml
var catalogFiles embed.FS

// Route used when a reader opens the docs without naming a page.
const (
	DefaultCategory = "getting-started"
	DefaultPage     = "introduction"
)

// DefaultTitle is used for placeholder pages whose route matches no navigation entry.
const DefaultTitle = "Documentation"

// Catalog is the static documentation: navigation plus authored pages.
// It is read-only after construction and safe for concurrent use.
type Catalog struct {
	categories []docs.DocCategory
	pages      map[string]map[string]docs.PageContent
}

type navigationFile struct {
	Categories []docs.DocCategory `yaml:"categories"`
}

// Load reads the embedded catalog. Each category may have a <slug>.yaml file
// keyed by page slug; pages without one resolve to a placeholder.
func Load() (*Catalog, error) {
	return LoadFS(catalogFiles, "catalog")
}

// LoadFS reads a catalog from dir in fsys.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, dir+"/navigation.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read navigation: %w", err)
	}

	var nav navigationFile
	if err := yaml.Unmarshal(data, &nav); err != nil {
		return nil, fmt.Errorf("failed to unmarshal navigation: %w", err)
	}

	pages := make(map[string]map[string]docs.PageContent)
	for _, cat := range nav.Categories {
		filename := fmt.Sprintf("%s/%s.yaml", dir, cat.Slug)
		data, err := fs.ReadFile(fsys, filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", filename, err)
		}

		var catPages map[string]docs.PageContent
		if err := yaml.Unmarshal(data, &catPages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", filename, err)
		}
		pages[cat.Slug] = catPages
	}

	return NewCatalog(nav.Categories, pages)
}

// NewCatalog validates and builds a catalog. Category slugs must be unique,
// page slugs must be unique within their category, and every authored page
// must have a navigation entry.
func NewCatalog(categories []docs.DocCategory, pages map[string]map[string]docs.PageContent) (*Catalog, error) {
	known := make(map[string]map[string]bool, len(categories))
	for _, cat := range categories {
		if cat.Slug == "" {
			return nil, fmt.Errorf("category %q has no slug", cat.Title)
		}
		if known[cat.Slug] != nil {
			return nil, fmt.Errorf("duplicate category slug %q", cat.Slug)
		}
		known[cat.Slug] = make(map[string]bool, len(cat.Pages))
		for _, page := range cat.Pages {
			if known[cat.Slug][page.Slug] {
				return nil, fmt.Errorf("duplicate page slug %q in category %q", page.Slug, cat.Slug)
			}
			known[cat.Slug][page.Slug] = true
		}
	}

	for catSlug, catPages := range pages {
		for pageSlug := range catPages {
			if !known[catSlug][pageSlug] {
				return nil, fmt.Errorf("page %s/%s has content but no navigation entry", catSlug, pageSlug)
			}
		}
	}

	if pages == nil {
		pages = make(map[string]map[string]docs.PageContent)
	}
	return &Catalog{categories: categories, pages: pages}, nil
}

// Categories returns the navigation in declaration order.
func (c *Catalog) Categories() []docs.DocCategory {
	return c.categories
}

// Category returns the category with the given slug.
func (c *Catalog) Category(slug string) (docs.DocCategory, bool) {
	for _, cat := range c.categories {
		if cat.Slug == slug {
			return cat, true
		}
	}
	return docs.DocCategory{}, false
}

// Page returns the navigation entry for (category, page).
func (c *Catalog) Page(categorySlug, pageSlug string) (docs.DocPage, bool) {
	cat, ok := c.Category(categorySlug)
	if !ok {
		return docs.DocPage{}, false
	}
	for _, page := range cat.Pages {
		if page.Slug == pageSlug {
			return page, true
		}
	}
	return docs.DocPage{}, false
}

// Resolve returns the content of a page. It never fails: routes with no
// authored content get a placeholder built from navigation metadata.
func (c *Catalog) Resolve(categorySlug, pageSlug string) docs.PageContent {
	if page, ok := c.pages[categorySlug][pageSlug]; ok {
		return page
	}
	return c.placeholder(categorySlug, pageSlug)
}

func (c *Catalog) placeholder(categorySlug, pageSlug string) docs.PageContent {
	title := DefaultTitle
	description := "Documentation content coming soon."
	subject := "this topic"

	if page, ok := c.Page(categorySlug, pageSlug); ok {
		if page.Title != "" {
			title = page.Title
			subject = page.Title
		}
		if page.Description != "" {
			description = page.Description
		}
	}

	return docs.PageContent{
		Title:       title,
		Description: description,
		Placeholder: true,
		Sections: []docs.ContentBlock{{
			ID:    "coming-soon",
			Title: "Coming Soon",
			Content: fmt.Sprintf("This documentation page is currently being written. "+
				"Check back soon for comprehensive content on %s.\n\n"+
				"In the meantime, feel free to:\n"+
				"- Explore other sections of the documentation\n"+
				"- Ask our AI assistant for help\n"+
				"- Join our Discord community for support", subject),
		}},
	}
}
