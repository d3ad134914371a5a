package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/jrsteele09/go-blog-server/posts"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	publicLayout = "layout"
	adminLayout  = "admin_layout"
)

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"excerpt": posts.Excerpt,
	"join":    strings.Join,
	"add":     func(a, b int) int { return a + b },
}

// Renderer holds one parsed template set per page, each combined with its layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	fsys := TemplateFilesFS()
	names, err := fs.Glob(fsys, "pages/*.html")
	if err != nil {
		return nil, err
	}

	rd := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		page := path.Base(name)
		tmpl, err := template.New(page).Funcs(templateFuncs).
			ParseFS(fsys, "layout.html", "admin_layout.html", "partials.html", name)
		if err != nil {
			return nil, fmt.Errorf("[Renderer] %s: %w", page, err)
		}
		rd.pages[page] = tmpl
	}
	return rd, nil
}

// Render executes page inside its layout; admin_* pages use the dashboard layout.
// Output is buffered so a template error still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := rd.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown template")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	layout := publicLayout
	if strings.HasPrefix(page, "admin_") {
		layout = adminLayout
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layout, data); err != nil {
		log.Err(err).Str("page", page).Msg("failed to render template")
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Fragment executes a named partial without a layout, for htmx swaps.
func (rd *Renderer) Fragment(w http.ResponseWriter, name string, data any) {
	// every page set carries the partials; any one will do
	for _, tmpl := range rd.pages {
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
			log.Err(err).Str("fragment", name).Msg("failed to render fragment")
			http.Error(w, "Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = buf.WriteTo(w)
		return
	}
	http.Error(w, "Server Error", http.StatusInternalServerError)
}
