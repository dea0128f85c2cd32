package controller

import (
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"wikiref/internal/auth"
	"wikiref/internal/project"
	"wikiref/internal/web/viewmodels"
)

// Project provides project handlers
type Project struct {
	ProjectRepo *project.Repository
	Templates   map[string]*template.Template
	Logger      *zap.Logger
}

// Register registers the project routes
func (p *Project) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", p.list)
}

func (p *Project) list(w http.ResponseWriter, r *http.Request) {
	projects, err := p.ProjectRepo.List(r.Context())
	if err != nil {
		serverError(w, p.Logger, err)
		return
	}

	user := auth.UserFromContext(r.Context())
	data := viewmodels.PageData{
		Projects:    projects,
		CurrentUser: user,
		IsLoggedIn:  user != nil,
	}
	render(w, p.Logger, p.Templates["index.html"], data)
}
