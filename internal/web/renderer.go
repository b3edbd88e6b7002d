package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	notesBox "github.com/2beens/notesbox/internal/notes_box"
	"github.com/2beens/notesbox/pkg"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	pageNotes    = "notes.html"
	pageNotFound = "not_found.html"
	pageError    = "error.html"
	pageHome     = "home.html"
)

type Meta struct {
	Title       string
	Description string
}

var (
	notesMeta = Meta{
		Title:       "All Notes",
		Description: "Manage your notes with ease",
	}
	homeMeta = Meta{
		Title:       "Notes",
		Description: "A better way of keeping track of your notes",
	}
)

type pageData struct {
	Meta    Meta
	Page    notesBox.NotesPage
	Message string
}

// Renderer renders the notes pages from the embedded templates.
// Every page is base.html + new_note.html + its own template.
type Renderer struct {
	templates map[string]*template.Template
	sanitizer *bluemonday.Policy
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		sanitizer: bluemonday.UGCPolicy(),
	}

	funcMap := template.FuncMap{
		"inc":      func(i int) int { return i + 1 },
		"noteDate": noteDate,
		"markdown": r.markdownToHTML,
	}

	for _, page := range []string{pageNotes, pageNotFound, pageError, pageHome} {
		tmpl, err := template.New(page).Funcs(funcMap).ParseFS(
			templatesFS,
			"templates/base.html",
			"templates/new_note.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}

	return r, nil
}

// StaticHandler serves the embedded stylesheet under /static/
func StaticHandler() http.Handler {
	staticRoot, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embedded at build time, cannot be missing
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticRoot)))
}

func (r *Renderer) RenderNotes(w http.ResponseWriter, statusCode int, page notesBox.NotesPage) {
	r.render(w, pageNotes, statusCode, pageData{Meta: notesMeta, Page: page})
}

func (r *Renderer) RenderNotFound(w http.ResponseWriter, statusCode int, message string) {
	r.render(w, pageNotFound, statusCode, pageData{Meta: notesMeta, Message: message})
}

func (r *Renderer) RenderError(w http.ResponseWriter, statusCode int, message string) {
	r.render(w, pageError, statusCode, pageData{Meta: notesMeta, Message: message})
}

func (r *Renderer) RenderHome(w http.ResponseWriter) {
	r.render(w, pageHome, http.StatusOK, pageData{Meta: homeMeta})
}

func (r *Renderer) render(w http.ResponseWriter, page string, statusCode int, data pageData) {
	tmpl, ok := r.templates[page]
	if !ok {
		log.Errorf("template %s not found", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Errorf("execute template %s: %s", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, buf.Bytes(), statusCode)
}

func (r *Renderer) markdownToHTML(content string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank,
	})
	unsafeHTML := markdown.ToHTML([]byte(content), p, renderer)
	return template.HTML(r.sanitizer.SanitizeBytes(unsafeHTML))
}

func noteDate(note notesBox.Note) string {
	createdAt, err := note.CreatedAt()
	if err != nil {
		return note.ID
	}
	return createdAt.Format("2 Jan 2006, 15:04")
}
