package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var templateFiles embed.FS

// parseTemplates builds one isolated template set per view, each sharing the
// layout.
func parseTemplates() map[string]*template.Template {
	views := []string{"index.html", "page.html", "wiki_index.html", "login.html", "register.html"}

	templates := make(map[string]*template.Template, len(views))
	for _, view := range views {
		templates[view] = template.Must(template.ParseFS(templateFiles, "templates/layout.html", "templates/"+view))
	}
	return templates
}
