package page

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiref/internal/models"
	"wikiref/internal/testutil"
)

func seedWiki(t *testing.T, db *sql.DB) int {
	t.Helper()
	projectID := testutil.Exec(t, db, "INSERT INTO projects (identifier, name) VALUES ('docs', 'Docs')")
	return testutil.Exec(t, db, "INSERT INTO wikis (project_id, start_page) VALUES (?, '')", projectID)
}

func TestCreateAndFind(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	wikiID := seedWiki(t, db)

	page := &models.WikiPage{WikiID: wikiID, Title: "Install"}
	content := &models.WikiContent{Text: "* Install", AuthorID: 1}
	id, err := repo.Create(ctx, page, content)
	require.NoError(t, err)
	assert.Equal(t, int64(page.ID), id)
	assert.Equal(t, page.ID, content.PageID)

	found, err := repo.FindByWikiAndID(ctx, wikiID, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "Install", found.Title)
	assert.Nil(t, found.ParentID)

	has, err := repo.HasContent(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, has)

	got, err := repo.Content(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "* Install", got.Text)
}

func TestFindByWikiAndIDScopesToWiki(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	wikiID := seedWiki(t, db)

	page := &models.WikiPage{WikiID: wikiID, Title: "Scoped"}
	_, err := repo.Create(ctx, page, nil)
	require.NoError(t, err)

	_, err = repo.FindByWikiAndID(ctx, wikiID+1, page.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, err = repo.FindByWikiAndID(ctx, wikiID, page.ID+100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPageWithoutContent(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	wikiID := seedWiki(t, db)

	page := &models.WikiPage{WikiID: wikiID, Title: "Empty"}
	_, err := repo.Create(ctx, page, nil)
	require.NoError(t, err)

	has, err := repo.HasContent(ctx, page.ID)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repo.Content(ctx, page.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, repo.UpdateContent(ctx, &models.WikiContent{PageID: page.ID, Text: "first", AuthorID: 1}))
	require.NoError(t, repo.UpdateContent(ctx, &models.WikiContent{PageID: page.ID, Text: "second", AuthorID: 2}))

	got, err := repo.Content(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)
	assert.Equal(t, 2, got.AuthorID)
}

func TestListByWikiOrdersByID(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	wikiID := seedWiki(t, db)

	for _, title := range []string{"Zeta", "Alpha", "Mid"} {
		_, err := repo.Create(ctx, &models.WikiPage{WikiID: wikiID, Title: title}, nil)
		require.NoError(t, err)
	}

	pages, err := repo.ListByWiki(ctx, wikiID)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "Zeta", pages[0].Title)
	assert.Equal(t, "Alpha", pages[1].Title)
	assert.Equal(t, "Mid", pages[2].Title)
	assert.Less(t, pages[0].ID, pages[1].ID)
}
