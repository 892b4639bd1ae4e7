// Package views renders the catalog pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// View identifiers.
const (
	Index          = "index"
	CategoryList   = "category_list"
	CategoryDetail = "category_detail"
	CategoryForm   = "category_form"
	CategoryDelete = "category_delete"
	TeaList        = "tea_list"
	TeaDetail      = "tea_detail"
	TeaForm        = "tea_form"
	TeaDelete      = "tea_delete"
	Error          = "error"
)

var pages = []string{
	Index, CategoryList, CategoryDetail, CategoryForm, CategoryDelete,
	TeaList, TeaDetail, TeaForm, TeaDelete, Error,
}

// Renderer writes a named view with its view model.
type Renderer interface {
	Render(w http.ResponseWriter, status int, view string, data any)
}

// Templates is the html/template backed Renderer.
type Templates struct {
	pages  map[string]*template.Template
	logger *zap.Logger
}

// New parses every page once, each paired with the shared layout.
func New(logger *zap.Logger) (*Templates, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Templates{
		pages:  make(map[string]*template.Template, len(pages)),
		logger: logger,
	}
	for _, name := range pages {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.gohtml", "templates/"+name+".gohtml")
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

// Render executes into a buffer first so a template failure never leaves
// a half written page behind.
func (t *Templates) Render(w http.ResponseWriter, status int, view string, data any) {
	tmpl, ok := t.pages[view]
	if !ok {
		t.logger.Error("unknown view", zap.String("view", view))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		t.logger.Error("render view", zap.String("view", view), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderError renders the error page for status.
func RenderError(r Renderer, w http.ResponseWriter, status int, message string) {
	r.Render(w, status, Error, ErrorPage{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}
