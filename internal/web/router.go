package web

import (
	"net/http"

	"wikiref/internal/web/controller"
	"wikiref/internal/web/middleware"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	authController := controller.Auth{AuthService: s.authService, Templates: s.templates, Logger: s.logger}
	authController.Register(mux)

	projectController := controller.Project{ProjectRepo: s.projectRepo, Templates: s.templates, Logger: s.logger}
	projectController.Register(mux)

	wikiController := controller.Wiki{
		Resolver:    s.resolver,
		ProjectRepo: s.projectRepo,
		WikiRepo:    s.wikiRepo,
		PageRepo:    s.pageRepo,
		Templates:   s.templates,
		Logger:      s.logger,
	}
	wikiController.Register(mux)

	// Destructive routes need a signed-in user.
	authenticatedMux := http.NewServeMux()
	wikiController.RegisterAdmin(authenticatedMux)

	miscController := controller.Misc{Logger: s.logger}
	miscController.Register(authenticatedMux)

	mux.Handle("/", middleware.Auth(s.authService)(authenticatedMux))

	return middleware.RequestLog(s.logger)(middleware.WithUser(s.authService)(mux))
}
