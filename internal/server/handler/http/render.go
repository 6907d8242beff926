package http

import (
	"bytes"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/server/web"
)

// Renderer executes the embedded HTML templates.
type Renderer struct {
	tmpl *template.Template
	log  *zap.Logger
}

// NewRenderer parses the embedded templates.
func NewRenderer(log *zap.Logger) (*Renderer, error) {
	tmpl, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, log: log}, nil
}

// Render writes the named template with status. The page is rendered into a
// buffer first so a template error still produces a clean 500.
func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		rd.log.Error("failed to render template", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
