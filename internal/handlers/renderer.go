package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

type TemplateRenderer struct {
	templates map[string]*template.Template
}

func NewTemplateRenderer() *TemplateRenderer {
	pages := []string{
		"home.html",
		"login.html",
		"loading.html",
		"setup.html",
		"advanced.html",
		"confirm_deck.html",
		"review.html",
		"confirm_exit.html",
		"results.html",
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl := template.Must(
			template.New("").ParseFS(templateFS, "templates/layout.html", "templates/"+page),
		)
		templates[page] = tmpl
	}

	return &TemplateRenderer{templates: templates}
}

func (t *TemplateRenderer) Render(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := t.templates[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}
