package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"etalase/pkg/logx"

	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates lists the files parsed into each page's template set.
var pageTemplates = map[string][]string{
	"store.html":       {"templates/store.html", "templates/cards.html", "templates/base.html"},
	"grid.html":        {"templates/grid.html", "templates/cards.html"},
	"admin.html":       {"templates/admin.html", "templates/base.html"},
	"admin_login.html": {"templates/admin_login.html", "templates/base.html"},
	"error.html":       {"templates/error.html", "templates/base.html"},
}

// TemplateFuncs are available in every page.
var TemplateFuncs = template.FuncMap{
	"truncate": func(s string, n int) string {
		r := []rune(s)
		if len(r) <= n {
			return s
		}
		return string(r[:n]) + "..."
	},
	"upper": strings.ToUpper,
}

// HTMLRenderer keeps a separate template set per page.
type HTMLRenderer struct {
	Templates map[string]*template.Template
}

// LoadTemplates parses every page set from the embedded templates.
func LoadTemplates() (*HTMLRenderer, error) {
	templates := make(map[string]*template.Template, len(pageTemplates))
	for name, files := range pageTemplates {
		tmpl, err := template.New(name).Funcs(TemplateFuncs).ParseFS(templateFS, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return &HTMLRenderer{Templates: templates}, nil
}

// Instance returns the renderer for one page. An unknown page renders a plain
// text notice instead of panicking.
func (r *HTMLRenderer) Instance(name string, data interface{}) render.Render {
	tmpl, ok := r.Templates[name]
	if !ok {
		logx.Error().Str("template", name).Msg("template not found")
		return render.String{Format: "halaman tidak tersedia"}
	}
	return render.HTML{
		Template: tmpl,
		Data:     data,
	}
}
