// Package navigation derives reading order, neighbours, and breadcrumbs
// from a category tree.
package navigation

import (
	"docsite/internal/domain/models/docs"
)

// Entry is one page in reading order.
type Entry struct {
	CategorySlug  string
	CategoryTitle string
	Page          docs.DocPage
	Path          string
}

// Crumb is one breadcrumb link.
type Crumb struct {
	Label string
	Path  string
}

// Flatten lists every page of categories in order, category by category.
// Paths are built as prefix/category/page.
func Flatten(prefix string, categories []docs.DocCategory) []Entry {
	var entries []Entry
	for _, cat := range categories {
		for _, page := range cat.Pages {
			entries = append(entries, Entry{
				CategorySlug:  cat.Slug,
				CategoryTitle: cat.Title,
				Page:          page,
				Path:          prefix + "/" + cat.Slug + "/" + page.Slug,
			})
		}
	}
	return entries
}

// Neighbors returns the items before and after index i. Neighbours cross
// category boundaries; nil is returned only at the two ends of the list
// or when i is out of range.
func Neighbors[T any](items []T, i int) (prev, next *T) {
	if i < 0 || i >= len(items) {
		return nil, nil
	}
	if i > 0 {
		prev = &items[i-1]
	}
	if i < len(items)-1 {
		next = &items[i+1]
	}
	return prev, next
}

// Locate returns the index of (categorySlug, pageSlug) in entries.
func Locate(entries []Entry, categorySlug, pageSlug string) (int, bool) {
	for i, e := range entries {
		if e.CategorySlug == categorySlug && e.Page.Slug == pageSlug {
			return i, true
		}
	}
	return -1, false
}

// Breadcrumbs returns root, category, and page crumbs for e.
func Breadcrumbs(root Crumb, e Entry) []Crumb {
	return []Crumb{
		root,
		{Label: e.CategoryTitle, Path: root.Path + "/" + e.CategorySlug},
		{Label: e.Page.Title, Path: e.Path},
	}
}
