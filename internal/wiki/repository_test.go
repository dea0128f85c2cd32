package wiki

import (
	"context"
	"database/sql"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiref/internal/models"
	"wikiref/internal/page"
	"wikiref/internal/project"
	"wikiref/internal/redirect"
	"wikiref/internal/testutil"
)

type sqliteFixture struct {
	db        *sql.DB
	resolver  *Resolver
	wikis     *Repository
	pages     *page.Repository
	redirects *redirect.Repository
	projects  *project.Repository
}

func newSQLiteFixture(t *testing.T) *sqliteFixture {
	t.Helper()
	db := testutil.OpenDB(t)
	f := &sqliteFixture{
		db:        db,
		wikis:     NewRepository(db),
		pages:     page.NewRepository(db),
		redirects: redirect.NewRepository(db),
		projects:  project.NewRepository(db),
	}
	f.resolver = NewResolver(Deps{
		Pages:      f.pages,
		Redirects:  f.redirects,
		Projects:   f.projects,
		Wikis:      f.wikis,
		Authorizer: &fakeAuthorizer{},
	})
	return f
}

func (f *sqliteFixture) projectWithWiki(t *testing.T, name, identifier string) (*models.Project, *models.Wiki) {
	t.Helper()
	ctx := context.Background()
	p, err := f.projects.Create(ctx, name, identifier, false)
	require.NoError(t, err)
	w, err := f.projects.EnableWiki(ctx, p, 1)
	require.NoError(t, err)
	return p, w
}

func itoa(i int) string { return strconv.Itoa(i) }

func TestRepositoryFindAndSetStartPage(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()
	p, w := f.projectWithWiki(t, "Docs", "docs")

	found, err := f.wikis.FindByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *w, *found)

	require.NoError(t, f.wikis.SetStartPage(ctx, w.ID, "99"))
	found, err = f.wikis.FindByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "99", found.StartPage)

	assert.ErrorIs(t, f.wikis.SetStartPage(ctx, w.ID+1, "1"), sql.ErrNoRows)
}

func TestResolveAgainstSQLite(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()
	p, w := f.projectWithWiki(t, "Platform Team", "platform")

	empty := &models.WikiPage{WikiID: w.ID, Title: "Draft"}
	_, err := f.pages.Create(ctx, empty, nil)
	require.NoError(t, err)

	start, err := f.resolver.FindOrNewPage(ctx, w, "")
	require.NoError(t, err)
	require.True(t, start.Found())
	assert.Equal(t, w.StartPage, itoa(start.Page.ID))

	global, err := f.resolver.FindPageGlobal(ctx, "platform:"+w.StartPage)
	require.NoError(t, err)
	assert.Equal(t, start.Page.ID, global.Page.ID)

	global, err = f.resolver.FindPageGlobal(ctx, "Platform Team:"+w.StartPage)
	require.NoError(t, err)
	assert.True(t, global.Found())

	global, err = f.resolver.FindPageGlobal(ctx, w.StartPage, InProject(p))
	require.NoError(t, err)
	assert.True(t, global.Found())

	// Present in the wiki but without content.
	direct, err := f.resolver.FindPage(ctx, w, itoa(empty.ID))
	require.NoError(t, err)
	assert.True(t, direct.Found())

	global, err = f.resolver.FindPageGlobal(ctx, "platform:"+itoa(empty.ID))
	require.NoError(t, err)
	assert.False(t, global.Found())
}

func TestDestroyCascades(t *testing.T) {
	f := newSQLiteFixture(t)
	ctx := context.Background()
	p, w := f.projectWithWiki(t, "Docs", "docs")
	_, other := f.projectWithWiki(t, "Other", "other")

	for _, r := range []*models.WikiRedirect{
		{WikiID: w.ID, Title: "A", RedirectsTo: "B", RedirectsToWikiID: w.ID},
		{WikiID: other.ID, Title: "C", RedirectsTo: "D", RedirectsToWikiID: w.ID},
		{WikiID: other.ID, Title: "E", RedirectsTo: "F", RedirectsToWikiID: other.ID},
	} {
		require.NoError(t, f.redirects.Create(ctx, r))
	}

	require.NoError(t, f.resolver.Destroy(ctx, w))

	_, err := f.wikis.FindByProject(ctx, p.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	var pages, contents int
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM wiki_pages WHERE wiki_id = ?", w.ID).Scan(&pages))
	require.NoError(t, f.db.QueryRow("SELECT COUNT(*) FROM wiki_contents").Scan(&contents))
	assert.Zero(t, pages)
	assert.Equal(t, 1, contents, "only the other wiki's start page content remains")

	remaining, err := f.redirects.ListForWiki(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "E", remaining[0].Title)

	lookup, err := f.resolver.FindPageGlobal(ctx, "docs:1")
	require.NoError(t, err)
	assert.False(t, lookup.Found())
}
