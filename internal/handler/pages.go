package handler

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"docsite/internal/config"
	"docsite/internal/content"
	"docsite/internal/docgen"
	"docsite/internal/domain"
	"docsite/internal/domain/models/docs"
	"docsite/internal/domain/services"
	"docsite/internal/export"
	"docsite/internal/httputil"
	"docsite/internal/navigation"
	"docsite/internal/render"
)

// Route prefixes of the two reading views.
const (
	DocsPrefix      = "/docs"
	GeneratedPrefix = "/generated"
)

// ExampleTopics are offered on the create form.
var ExampleTopics = []string{"React Hooks", "REST API Design", "Docker", "TypeScript", "PostgreSQL", "GraphQL"}

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[string]*template.Template{
	"home":     parsePage("home.html"),
	"page":     parsePage("page.html"),
	"library":  parsePage("library.html"),
	"create":   parsePage("create.html"),
	"notfound": parsePage("notfound.html"),
}

func parsePage(name string) *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/"+name))
}

// PageHandler serves the HTML reading, library, and create pages.
type PageHandler struct {
	catalog    *content.Catalog
	entries    []navigation.Entry
	library    services.LibraryService
	generation services.GenerationService
	renderer   *render.Renderer
	logger     *slog.Logger
}

func NewPageHandler(
	catalog *content.Catalog,
	library services.LibraryService,
	generation services.GenerationService,
	renderer *render.Renderer,
	logger *slog.Logger,
) *PageHandler {
	return &PageHandler{
		catalog:    catalog,
		entries:    navigation.Flatten(DocsPrefix, catalog.Categories()),
		library:    library,
		generation: generation,
		renderer:   renderer,
		logger:     logger,
	}
}

type navCategory struct {
	Title  string
	Path   string
	Active bool
	Pages  []navLink
}

type navLink struct {
	Title  string
	Path   string
	Active bool
}

type sectionView struct {
	ID    string
	Title string
	HTML  template.HTML
}

type tocEntry struct {
	ID    string
	Title string
}

type exportLink struct {
	Label string
	Path  string
}

type pageView struct {
	Title       string
	Description string
	Nav         []navCategory
	Crumbs      []navigation.Crumb
	Sections    []sectionView
	TOC         []tocEntry
	Prev, Next  *navLink
	Exports     []exportLink
}

// Home renders the landing page.
// GET /{$}
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "home", pageView{Nav: h.nav(DocsPrefix, h.catalog.Categories(), "", "")})
}

// Docs renders a static page. Missing path values fall back to the
// default category and page; unknown pages render a placeholder.
// GET /docs, /docs/{category}, /docs/{category}/{page}
func (h *PageHandler) Docs(w http.ResponseWriter, r *http.Request) {
	categorySlug := valueOr(r.PathValue("category"), content.DefaultCategory)
	pageSlug := valueOr(r.PathValue("page"), content.DefaultPage)

	page := h.catalog.Resolve(categorySlug, pageSlug)

	view := pageView{
		Title:       page.Title,
		Description: page.Description,
		Nav:         h.nav(DocsPrefix, h.catalog.Categories(), categorySlug, pageSlug),
	}

	if i, ok := navigation.Locate(h.entries, categorySlug, pageSlug); ok {
		view.Crumbs = navigation.Breadcrumbs(navigation.Crumb{Label: "Docs", Path: DocsPrefix}, h.entries[i])
		prev, next := navigation.Neighbors(h.entries, i)
		view.Prev, view.Next = entryLink(prev), entryLink(next)
	}

	for _, block := range page.Sections {
		html := h.renderer.Blocks(block.Content)
		if block.Code != nil {
			code, err := h.renderer.Code(*block.Code)
			if err != nil {
				h.serverError(w, err)
				return
			}
			html += code
		}
		view.Sections = append(view.Sections, sectionView{ID: block.ID, Title: block.Title, HTML: template.HTML(html)})
		view.TOC = append(view.TOC, tocEntry{ID: block.ID, Title: block.Title})
	}

	h.render(w, http.StatusOK, "page", view)
}

// Generated renders one section of a saved doc. Without a slug it
// redirects to the first section.
// GET /generated/{id}, /generated/{id}/{slug}
func (h *PageHandler) Generated(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDoc(w, r)
	if !ok {
		return
	}
	gen := content.FromGenerated(doc.GeneratedDoc, doc.Sections)

	slug := r.PathValue("slug")
	if slug == "" {
		if first := gen.FirstSlug(); first != "" {
			http.Redirect(w, r, GeneratedPrefix+"/"+doc.ID+"/"+first, http.StatusFound)
			return
		}
	}

	view := pageView{
		Title:       doc.Topic,
		Description: doc.Description,
		Nav:         h.nav(GeneratedPrefix, gen.Navigation(), doc.ID, slug),
		Exports:     exportLinks(doc.ID),
	}

	if slug != "" {
		page, found := gen.Resolve(slug)
		if !found {
			h.notFound(w, "This section does not exist in the document.")
			return
		}

		entries := navigation.Flatten(GeneratedPrefix, gen.Navigation())
		if i, ok := navigation.Locate(entries, doc.ID, slug); ok {
			view.Crumbs = navigation.Breadcrumbs(navigation.Crumb{Label: "Library", Path: "/library"}, entries[i])
			prev, next := navigation.Neighbors(entries, i)
			view.Prev, view.Next = entryLink(prev), entryLink(next)
		}

		view.Title = page.Title
		for _, block := range page.Sections {
			html, err := h.renderer.Markdown(block.Content)
			if err != nil {
				h.serverError(w, err)
				return
			}
			view.Sections = append(view.Sections, sectionView{ID: block.ID, HTML: template.HTML(html)})
		}
	}

	h.render(w, http.StatusOK, "page", view)
}

// ExportMarkdown downloads a saved doc as one Markdown file.
// GET /generated/{id}/export.md
func (h *PageHandler) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDoc(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(doc.Topic)+`"`)
	w.Write([]byte(export.Markdown(doc.Topic, doc.Description, doc.Sections)))
}

// ExportHTML renders a saved doc as a single printable page.
// GET /generated/{id}/export.html
func (h *PageHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.loadDoc(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.PrintHTML(&buf, h.renderer, doc.Topic, doc.Description, doc.Sections); err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

type libraryView struct {
	Title string
	Query string
	Docs  []docs.GeneratedDoc
}

// Library lists saved docs, filtered by ?q=.
// GET /library
func (h *PageHandler) Library(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	list, err := h.library.List(r.Context(), query)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, http.StatusOK, "library", libraryView{Title: "Library", Query: query, Docs: list})
}

// DeleteDoc removes a saved doc from the library form and returns to the list.
// POST /library/{id}/delete
func (h *PageHandler) DeleteDoc(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.library.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.notFound(w, "This documentation no longer exists.")
			return
		}
		h.serverError(w, err)
		return
	}
	h.logger.Info("doc deleted", "doc_id", id, "subject", httputil.GetSubject(r))
	http.Redirect(w, r, "/library", http.StatusSeeOther)
}

type createView struct {
	Title    string
	Topic    string
	Context  string
	Save     bool
	Error    string
	MaxTopic int
	Examples []string
}

// CreateForm renders the generation form. ?topic= pre-fills it.
// GET /create
func (h *PageHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "create", h.createView(r.URL.Query().Get("topic"), "", true, ""))
}

// Create runs a generation from the form. Saved docs redirect to their
// reader; unsaved ones are rendered in full on the response.
// POST /create
func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, "create", h.createView("", "", true, "Invalid form submission."))
		return
	}
	topic := r.PostForm.Get("topic")
	extra := r.PostForm.Get("context")
	save := r.PostForm.Get("save") == "true"

	result, err := h.generation.Generate(r.Context(), &services.GenerateRequest{
		Topic: docgen.Prompt(topic, extra),
		Save:  save,
	})
	if err != nil {
		status, message := serviceError(err)
		h.logger.Warn("generation from form failed", "status", status, "error", err)
		h.render(w, status, "create", h.createView(topic, extra, save, message))
		return
	}

	if result.DocID != "" {
		http.Redirect(w, r, GeneratedPrefix+"/"+result.DocID, http.StatusSeeOther)
		return
	}

	view := pageView{Title: result.Topic, Description: result.Description}
	links := make([]navLink, 0, len(result.Sections))
	for _, s := range result.Sections {
		html, err := h.renderer.Markdown(s.Content)
		if err != nil {
			h.serverError(w, err)
			return
		}
		view.Sections = append(view.Sections, sectionView{ID: s.Slug, HTML: template.HTML(html)})
		view.TOC = append(view.TOC, tocEntry{ID: s.Slug, Title: s.Title})
		links = append(links, navLink{Title: s.Title, Path: "#" + s.Slug})
	}
	view.Nav = []navCategory{{Title: result.Topic, Active: true, Pages: links}}

	h.render(w, http.StatusOK, "page", view)
}

// CodeCSS serves the stylesheet for highlighted code.
// GET /static/code.css
func (h *PageHandler) CodeCSS(w http.ResponseWriter, r *http.Request) {
	css, err := h.renderer.CodeCSS()
	if err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(css))
}

// NotFound renders the catch-all 404 page.
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, "The page you are looking for does not exist.")
}

func (h *PageHandler) createView(topic, extra string, save bool, message string) createView {
	return createView{
		Title:    "Create",
		Topic:    topic,
		Context:  extra,
		Save:     save,
		Error:    message,
		MaxTopic: config.MaxTopicLength,
		Examples: ExampleTopics,
	}
}

func (h *PageHandler) loadDoc(w http.ResponseWriter, r *http.Request) (*docs.GeneratedDocWithSections, bool) {
	doc, err := h.library.Get(r.Context(), r.PathValue("id"))
	switch {
	case err == nil:
		return doc, true
	case errors.Is(err, domain.ErrNotFound):
		h.notFound(w, "This document does not exist or has been deleted.")
	default:
		h.serverError(w, err)
	}
	return nil, false
}

// nav marks the category activeCategory and its page activePage.
func (h *PageHandler) nav(prefix string, categories []docs.DocCategory, activeCategory, activePage string) []navCategory {
	out := make([]navCategory, 0, len(categories))
	for _, cat := range categories {
		nc := navCategory{
			Title:  cat.Title,
			Path:   prefix + "/" + cat.Slug,
			Active: cat.Slug == activeCategory,
		}
		for _, p := range cat.Pages {
			nc.Pages = append(nc.Pages, navLink{
				Title:  p.Title,
				Path:   prefix + "/" + cat.Slug + "/" + p.Slug,
				Active: nc.Active && p.Slug == activePage,
			})
		}
		out = append(out, nc)
	}
	return out
}

func entryLink(e *navigation.Entry) *navLink {
	if e == nil {
		return nil
	}
	return &navLink{Title: e.Page.Title, Path: e.Path}
}

func exportLinks(id string) []exportLink {
	base := GeneratedPrefix + "/" + id
	return []exportLink{
		{Label: "Export Markdown", Path: base + "/export.md"},
		{Label: "Print / PDF", Path: base + "/export.html"},
	}
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

type notFoundView struct {
	Title   string
	Message string
}

func (h *PageHandler) notFound(w http.ResponseWriter, message string) {
	h.render(w, http.StatusNotFound, "notfound", notFoundView{Title: "Not found", Message: message})
}

func (h *PageHandler) serverError(w http.ResponseWriter, err error) {
	h.logger.Error("page render failed", "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// render executes into a buffer first so a template error never leaves a
// half-written page.
func (h *PageHandler) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates[name].ExecuteTemplate(&buf, "base", data); err != nil {
		h.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
