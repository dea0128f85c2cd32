// Package wiki resolves page references within project wikis.
//
// A reference is either a bare page identifier, resolved in a given project,
// or a compound "project:page" reference where the prefix names the project by
// identifier or, failing that, by name. Page identifiers are numeric page ids.
package wiki

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"wikiref/internal/models"
)

// Permission names a capability checked against a project.
type Permission string

// PermissionViewWikiPages gates reading any page of a project's wiki.
const PermissionViewWikiPages Permission = "view_wiki_pages"

// SidebarPage is the identifier looked up for a wiki's sidebar.
const SidebarPage = "Sidebar"

// compoundRef splits "project:page" at the first colon. Anchors match at line
// boundaries, so the first line holding a colon is the reference.
var compoundRef = regexp.MustCompile(`(?m)^([^:\n]+):(.*)$`)

// PageStore looks up pages. Lookups return sql.ErrNoRows when nothing matches.
type PageStore interface {
	FindByWikiAndID(ctx context.Context, wikiID, pageID int) (*models.WikiPage, error)
	HasContent(ctx context.Context, pageID int) (bool, error)
}

// RedirectStore removes redirects.
type RedirectStore interface {
	DeleteForWiki(ctx context.Context, wikiID int) (int64, error)
}

// ProjectDirectory finds projects. Lookups return sql.ErrNoRows when nothing
// matches.
type ProjectDirectory interface {
	FindByIdentifier(ctx context.Context, identifier string) (*models.Project, error)
	FindByName(ctx context.Context, name string) (*models.Project, error)
}

// WikiStore finds and removes wikis.
type WikiStore interface {
	FindByProject(ctx context.Context, projectID int) (*models.Wiki, error)
	Delete(ctx context.Context, wikiID int) error
}

// Authorizer answers whether a user holds a permission on a project.
type Authorizer interface {
	AllowedTo(ctx context.Context, user *models.User, perm Permission, projectID int) (bool, error)
}

// Lookup is the result of resolving a page. A zero Lookup means not found.
type Lookup struct {
	Page              *models.WikiPage
	FoundWithRedirect bool
}

// Found reports whether a page was resolved.
func (l Lookup) Found() bool {
	return l.Page != nil
}

// Deps are the collaborators a Resolver needs.
type Deps struct {
	Pages      PageStore
	Redirects  RedirectStore
	Projects   ProjectDirectory
	Wikis      WikiStore
	Authorizer Authorizer
	Logger     *zap.Logger
}

// Resolver resolves page references. It holds no per-call state and is safe
// for concurrent use if its collaborators are.
type Resolver struct {
	pages      PageStore
	redirects  RedirectStore
	projects   ProjectDirectory
	wikis      WikiStore
	authorizer Authorizer
	logger     *zap.Logger
}

// NewResolver creates a resolver over the given collaborators.
func NewResolver(deps Deps) *Resolver {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		pages:      deps.Pages,
		redirects:  deps.Redirects,
		projects:   deps.Projects,
		wikis:      deps.Wikis,
		authorizer: deps.Authorizer,
		logger:     logger.Named("wiki"),
	}
}

type findOptions struct {
	withRedirect bool
}

// FindOption tunes FindPage.
type FindOption func(*findOptions)

// WithRedirect sets whether redirects may be followed. Pages are addressed by
// id, so no redirect is ever consulted and the option has no effect on the
// result.
func WithRedirect(follow bool) FindOption {
	return func(o *findOptions) {
		o.withRedirect = follow
	}
}

// FindOrNewPage returns the page with the given id, or the start page when id
// is blank. Pages are never created.
func (r *Resolver) FindOrNewPage(ctx context.Context, wiki *models.Wiki, id string) (Lookup, error) {
	return r.FindPage(ctx, wiki, id)
}

// FindPage finds the page of wiki whose id equals id. A blank id stands for
// the wiki's start page. Identifiers that are not base-10 integers match
// nothing.
func (r *Resolver) FindPage(ctx context.Context, wiki *models.Wiki, id string, opts ...FindOption) (Lookup, error) {
	o := findOptions{withRedirect: true}
	for _, opt := range opts {
		opt(&o)
	}
	if wiki == nil {
		return Lookup{}, nil
	}

	if isBlank(id) {
		id = wiki.StartPage
	}

	r.logger.Debug("finding page",
		zap.Int("wiki_id", wiki.ID),
		zap.String("id", id),
		zap.Bool("with_redirect", o.withRedirect))

	pageID, err := strconv.Atoi(id)
	if err != nil {
		return Lookup{}, nil
	}

	page, err := r.pages.FindByWikiAndID(ctx, wiki.ID, pageID)
	if errors.Is(err, sql.ErrNoRows) {
		return Lookup{}, nil
	}
	if err != nil {
		return Lookup{}, err
	}
	return Lookup{Page: page}, nil
}

type globalOptions struct {
	project *models.Project
}

// GlobalOption tunes FindPageGlobal.
type GlobalOption func(*globalOptions)

// InProject resolves unqualified references in project.
func InProject(project *models.Project) GlobalOption {
	return func(o *globalOptions) {
		o.project = project
	}
}

// FindPageGlobal resolves a reference of the form "page" or "project:page".
// A project prefix takes precedence over InProject. Only pages that have
// content are returned.
func (r *Resolver) FindPageGlobal(ctx context.Context, ref string, opts ...GlobalOption) (Lookup, error) {
	var o globalOptions
	for _, opt := range opts {
		opt(&o)
	}

	project := o.project
	id := ref
	if m := compoundRef.FindStringSubmatch(ref); m != nil {
		var err error
		project, err = r.findProject(ctx, m[1])
		if err != nil {
			return Lookup{}, err
		}
		id = m[2]
	}
	if project == nil {
		r.logger.Debug("no project for reference", zap.String("ref", ref))
		return Lookup{}, nil
	}

	wiki, err := r.wikis.FindByProject(ctx, project.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return Lookup{}, nil
	}
	if err != nil {
		return Lookup{}, err
	}

	lookup, err := r.FindPage(ctx, wiki, id)
	if err != nil || !lookup.Found() {
		return Lookup{}, err
	}

	hasContent, err := r.pages.HasContent(ctx, lookup.Page.ID)
	if err != nil {
		return Lookup{}, err
	}
	if !hasContent {
		return Lookup{}, nil
	}
	return lookup, nil
}

// findProject looks a project up by identifier and then by name. It returns
// nil when neither matches.
func (r *Resolver) findProject(ctx context.Context, key string) (*models.Project, error) {
	project, err := r.projects.FindByIdentifier(ctx, key)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	project, err = r.projects.FindByName(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return project, err
}

// Visible reports whether user may view the wiki's pages. Anonymous callers
// never can.
func (r *Resolver) Visible(ctx context.Context, wiki *models.Wiki, user *models.User) (bool, error) {
	if user == nil || wiki == nil {
		return false, nil
	}
	return r.authorizer.AllowedTo(ctx, user, PermissionViewWikiPages, wiki.ProjectID)
}

// DeleteRedirects removes every redirect from or to the wiki.
func (r *Resolver) DeleteRedirects(ctx context.Context, wiki *models.Wiki) (int64, error) {
	if wiki == nil {
		return 0, nil
	}
	return r.redirects.DeleteForWiki(ctx, wiki.ID)
}

// Destroy deletes the wiki. Its redirects are removed before the wiki itself.
func (r *Resolver) Destroy(ctx context.Context, wiki *models.Wiki) error {
	if wiki == nil {
		return nil
	}
	removed, err := r.DeleteRedirects(ctx, wiki)
	if err != nil {
		return err
	}
	if err := r.wikis.Delete(ctx, wiki.ID); err != nil {
		return err
	}

	r.logger.Info("wiki destroyed",
		zap.Int("wiki_id", wiki.ID),
		zap.Int("project_id", wiki.ProjectID),
		zap.Int64("redirects_removed", removed))
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
