package web

import (
	"database/sql"
	"html/template"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"wikiref/internal/auth"
	"wikiref/internal/page"
	"wikiref/internal/project"
	"wikiref/internal/redirect"
	"wikiref/internal/wiki"
)

// Server holds the dependencies for the web server.
type Server struct {
	templates   map[string]*template.Template
	logger      *zap.Logger
	authService *auth.Service
	resolver    *wiki.Resolver
	pageRepo    *page.Repository
	projectRepo *project.Repository
	wikiRepo    *wiki.Repository
	handler     http.Handler
}

// NewServer creates a new server with the given dependencies.
func NewServer(db *sql.DB, store sessions.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, store, logger)
	pageRepo := page.NewRepository(db)
	projectRepo := project.NewRepository(db)
	wikiRepo := wiki.NewRepository(db)

	resolver := wiki.NewResolver(wiki.Deps{
		Pages:      pageRepo,
		Redirects:  redirect.NewRepository(db),
		Projects:   projectRepo,
		Wikis:      wikiRepo,
		Authorizer: auth.NewAuthorizer(authRepo, projectRepo),
		Logger:     logger,
	})

	s := &Server{
		templates:   parseTemplates(),
		logger:      logger,
		authService: authService,
		resolver:    resolver,
		pageRepo:    pageRepo,
		projectRepo: projectRepo,
		wikiRepo:    wikiRepo,
	}
	s.handler = s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
