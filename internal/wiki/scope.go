package wiki

import (
	"context"

	"wikiref/internal/models"
)

// Scope is a short-lived handle on one wiki, typically one per request. It
// memoizes the sidebar page and must not be shared between goroutines.
type Scope struct {
	resolver *Resolver
	wiki     *models.Wiki

	sidebar       *models.WikiPage
	sidebarLoaded bool
}

// Scope returns a new handle on wiki.
func (r *Resolver) Scope(wiki *models.Wiki) *Scope {
	return &Scope{resolver: r, wiki: wiki}
}

// Wiki returns the scoped wiki.
func (s *Scope) Wiki() *models.Wiki {
	return s.wiki
}

// FindPage resolves id within the scoped wiki.
func (s *Scope) FindPage(ctx context.Context, id string, opts ...FindOption) (Lookup, error) {
	return s.resolver.FindPage(ctx, s.wiki, id, opts...)
}

// Sidebar returns the page used as sidebar content, or nil when the wiki has
// none. The first successful lookup is reused for the lifetime of the scope,
// even if the page changes afterwards.
func (s *Scope) Sidebar(ctx context.Context) (*models.WikiPage, error) {
	if s.sidebarLoaded {
		return s.sidebar, nil
	}

	lookup, err := s.resolver.FindPage(ctx, s.wiki, SidebarPage, WithRedirect(false))
	if err != nil {
		return nil, err
	}
	s.sidebar = lookup.Page
	s.sidebarLoaded = true
	return s.sidebar, nil
}
