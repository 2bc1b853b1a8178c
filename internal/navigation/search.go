package navigation

import "strings"

// Search limits.
const (
	MaxSearchResults     = 8
	SuggestedCategories  = 3
	SuggestedPagesPerCat = 2
)

// Search returns up to MaxSearchResults entries whose page title, page
// description or category title contains query, case-insensitively.
// A blank query suggests the first pages of the first categories instead.
func Search(entries []Entry, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return suggestions(entries)
	}

	var results []Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Page.Title), query) ||
			strings.Contains(strings.ToLower(e.Page.Description), query) ||
			strings.Contains(strings.ToLower(e.CategoryTitle), query) {
			results = append(results, e)
			if len(results) == MaxSearchResults {
				break
			}
		}
	}
	return results
}

func suggestions(entries []Entry) []Entry {
	var (
		results    []Entry
		categories int
		perCat     int
		current    string
	)
	for _, e := range entries {
		if e.CategorySlug != current {
			if categories == SuggestedCategories {
				break
			}
			current = e.CategorySlug
			categories++
			perCat = 0
		}
		if perCat < SuggestedPagesPerCat {
			results = append(results, e)
			perCat++
		}
	}
	return results
}
