package controller

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"wikiref/internal/auth"
	"wikiref/internal/models"
	"wikiref/internal/page"
	"wikiref/internal/project"
	"wikiref/internal/web/renderer"
	"wikiref/internal/web/viewmodels"
	"wikiref/internal/wiki"
)

// Wiki provides wiki page handlers
type Wiki struct {
	Resolver    *wiki.Resolver
	ProjectRepo *project.Repository
	WikiRepo    *wiki.Repository
	PageRepo    *page.Repository
	Templates   map[string]*template.Template
	Logger      *zap.Logger
}

// Register registers the public wiki routes
func (c *Wiki) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /projects/{identifier}/wiki", c.show)
	mux.HandleFunc("GET /projects/{identifier}/wiki/index", c.index)
	mux.HandleFunc("GET /projects/{identifier}/wiki/{id}", c.show)
	mux.HandleFunc("GET /wiki/{ref...}", c.global)
}

// RegisterAdmin registers the routes that need a signed-in user
func (c *Wiki) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("POST /projects/{identifier}/wiki/destroy", c.destroy)
}

// loadWiki resolves the project and wiki named in the URL and checks that
// the current user may view it. It writes the error response and returns
// false when the request cannot continue.
func (c *Wiki) loadWiki(w http.ResponseWriter, r *http.Request) (*models.Project, *models.Wiki, bool) {
	ctx := r.Context()

	p, err := c.ProjectRepo.FindByIdentifier(ctx, r.PathValue("identifier"))
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		serverError(w, c.Logger, err)
		return nil, nil, false
	}

	wk, err := c.WikiRepo.FindByProject(ctx, p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return nil, nil, false
	}
	if err != nil {
		serverError(w, c.Logger, err)
		return nil, nil, false
	}

	user := auth.UserFromContext(ctx)
	visible, err := c.Resolver.Visible(ctx, wk, user)
	if err != nil {
		serverError(w, c.Logger, err)
		return nil, nil, false
	}
	if !visible {
		if user == nil {
			http.Redirect(w, r, "/login", http.StatusFound)
		} else {
			http.Error(w, "Forbidden", http.StatusForbidden)
		}
		return nil, nil, false
	}
	return p, wk, true
}

func (c *Wiki) show(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, wk, ok := c.loadWiki(w, r)
	if !ok {
		return
	}

	scope := c.Resolver.Scope(wk)
	lookup, err := c.Resolver.FindOrNewPage(ctx, scope.Wiki(), r.PathValue("id"))
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}
	if !lookup.Found() {
		http.NotFound(w, r)
		return
	}

	content, err := c.renderPage(ctx, lookup.Page)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	var sidebar template.HTML
	if sidebarPage, err := scope.Sidebar(ctx); err != nil {
		serverError(w, c.Logger, err)
		return
	} else if sidebarPage != nil {
		if sidebar, err = c.renderPage(ctx, sidebarPage); err != nil {
			serverError(w, c.Logger, err)
			return
		}
	}

	user := auth.UserFromContext(ctx)
	data := viewmodels.PageData{
		Project:     *p,
		Wiki:        *wk,
		Page:        lookup.Page,
		Content:     content,
		Sidebar:     sidebar,
		CurrentUser: user,
		IsLoggedIn:  user != nil,
	}
	render(w, c.Logger, c.Templates["page.html"], data)
}

// renderPage renders the page's content. A page without content renders
// empty.
func (c *Wiki) renderPage(ctx context.Context, pg *models.WikiPage) (template.HTML, error) {
	content, err := c.PageRepo.Content(ctx, pg.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return renderer.Render(content.Text)
}

func (c *Wiki) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, wk, ok := c.loadWiki(w, r)
	if !ok {
		return
	}

	pages, err := c.PageRepo.ListByWiki(ctx, wk.ID)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	user := auth.UserFromContext(ctx)
	data := viewmodels.PageData{
		Project:     *p,
		Wiki:        *wk,
		PageTree:    viewmodels.BuildPageTree(pages),
		CurrentUser: user,
		IsLoggedIn:  user != nil,
	}
	render(w, c.Logger, c.Templates["wiki_index.html"], data)
}

// global resolves "page" or "project:page" references and redirects to the
// page's canonical URL. The "project" query parameter scopes unqualified
// references. Anonymous callers are sent to log in before anything is
// resolved.
func (c *Wiki) global(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := auth.UserFromContext(ctx)
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	var opts []wiki.GlobalOption
	if identifier := r.URL.Query().Get("project"); identifier != "" {
		p, err := c.ProjectRepo.FindByIdentifier(ctx, identifier)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			serverError(w, c.Logger, err)
			return
		}
		if p != nil {
			opts = append(opts, wiki.InProject(p))
		}
	}

	lookup, err := c.Resolver.FindPageGlobal(ctx, r.PathValue("ref"), opts...)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}
	if !lookup.Found() {
		http.NotFound(w, r)
		return
	}

	wk, err := c.WikiRepo.FindByID(ctx, lookup.Page.WikiID)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	// Pages the caller may not view look the same as missing ones.
	visible, err := c.Resolver.Visible(ctx, wk, user)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}
	if !visible {
		http.NotFound(w, r)
		return
	}

	p, err := c.ProjectRepo.FindByID(ctx, wk.ProjectID)
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/projects/%s/wiki/%d", p.Identifier, lookup.Page.ID), http.StatusSeeOther)
}

func (c *Wiki) destroy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user := auth.UserFromContext(ctx)
	if user == nil || !user.Admin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	p, err := c.ProjectRepo.FindByIdentifier(ctx, r.PathValue("identifier"))
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	wk, err := c.WikiRepo.FindByProject(ctx, p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		serverError(w, c.Logger, err)
		return
	}

	if err := c.Resolver.Destroy(ctx, wk); err != nil {
		serverError(w, c.Logger, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
