package docs

// DocCategory groups pages in the static navigation. Pages keep declaration order.
type DocCategory struct {
	Title string    `json:"title" yaml:"title"`
	Slug  string    `json:"slug" yaml:"slug"`
	Icon  string    `json:"icon" yaml:"icon"`
	Pages []DocPage `json:"pages" yaml:"pages"`
}

// DocPage is a navigation entry. (categorySlug, pageSlug) identifies a page.
type DocPage struct {
	Title       string `json:"title" yaml:"title"`
	Slug        string `json:"slug" yaml:"slug"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
}

// DocSection is one content block of a static page.
type DocSection struct {
	ID      string      `json:"id" yaml:"id"`
	Title   string      `json:"title" yaml:"title"`
	Content string      `json:"content" yaml:"content"` // light markup, see render.ParseBlocks
	Code    *CodeSample `json:"code,omitempty" yaml:"code,omitempty"`
}

// CodeSample is an optional code listing attached to a section.
type CodeSample struct {
	Language string `json:"language" yaml:"language"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
}

// ContentBlock is the unit renderers consume.
type ContentBlock = DocSection

// PageContent is what the content model resolves a route to.
type PageContent struct {
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Sections    []ContentBlock `json:"sections" yaml:"sections"`
	Placeholder bool           `json:"placeholder,omitempty" yaml:"-"`
}
