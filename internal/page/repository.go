package page

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wikiref/internal/models"
)

// Repository provides access to the wiki page storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByWikiAndID finds the page with the given id inside a wiki. It returns
// sql.ErrNoRows when there is no such page.
func (r *Repository) FindByWikiAndID(ctx context.Context, wikiID, pageID int) (*models.WikiPage, error) {
	var page models.WikiPage
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, wiki_id, parent_id, title, created_on FROM wiki_pages WHERE wiki_id = ? AND id = ?",
		wikiID, pageID).Scan(&page.ID, &page.WikiID, &page.ParentID, &page.Title, &page.CreatedOn)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// HasContent reports whether a page has a content row.
func (r *Repository) HasContent(ctx context.Context, pageID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM wiki_contents WHERE page_id = ?)", pageID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking content of page %d: %w", pageID, err)
	}
	return exists, nil
}

// Content gets the current content of a page.
func (r *Repository) Content(ctx context.Context, pageID int) (*models.WikiContent, error) {
	var content models.WikiContent
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, page_id, text, author_id, comments, updated_on FROM wiki_contents WHERE page_id = ?",
		pageID).Scan(&content.ID, &content.PageID, &content.Text, &content.AuthorID, &content.Comments, &content.UpdatedOn)
	if err != nil {
		return nil, err
	}
	return &content, nil
}

// ListByWiki lists all pages of a wiki ordered by id.
func (r *Repository) ListByWiki(ctx context.Context, wikiID int) ([]models.WikiPage, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, wiki_id, parent_id, title, created_on FROM wiki_pages WHERE wiki_id = ? ORDER BY id ASC", wikiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.WikiPage
	for rows.Next() {
		var page models.WikiPage
		if err := rows.Scan(&page.ID, &page.WikiID, &page.ParentID, &page.Title, &page.CreatedOn); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Create creates a new page and, when content is not nil, its content in a
// transaction. The page's ID is set on success.
func (r *Repository) Create(ctx context.Context, page *models.WikiPage, content *models.WikiContent) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	pageID, err := InsertTx(ctx, tx, page, content)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}
	return pageID, nil
}

// UpdateContent replaces the content of a page, creating it if the page has
// none yet. Pages are not edited through the web or CLI surfaces; this is
// used for seeding and tests.
func (r *Repository) UpdateContent(ctx context.Context, content *models.WikiContent) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO wiki_contents (page_id, text, author_id, comments, updated_on) VALUES (?, ?, ?, ?, ?)
ON CONFLICT (page_id) DO UPDATE SET text = excluded.text, author_id = excluded.author_id,
    comments = excluded.comments, updated_on = excluded.updated_on`,
		content.PageID, content.Text, content.AuthorID, content.Comments, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error updating content of page %d: %w", content.PageID, err)
	}
	return nil
}

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertTx creates a page and its optional content inside an existing
// transaction. Other repositories use it to seed a wiki's start page.
func InsertTx(ctx context.Context, tx Execer, page *models.WikiPage, content *models.WikiContent) (int64, error) {
	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, "INSERT INTO wiki_pages (wiki_id, parent_id, title, created_on) VALUES (?, ?, ?, ?)",
		page.WikiID, page.ParentID, page.Title, now)
	if err != nil {
		return 0, fmt.Errorf("error creating page: %w", err)
	}
	pageID, _ := res.LastInsertId()
	page.ID = int(pageID)
	page.CreatedOn = now

	if content == nil {
		return pageID, nil
	}

	content.PageID = page.ID
	res, err = tx.ExecContext(ctx, "INSERT INTO wiki_contents (page_id, text, author_id, comments, updated_on) VALUES (?, ?, ?, ?, ?)",
		content.PageID, content.Text, content.AuthorID, content.Comments, now)
	if err != nil {
		return 0, fmt.Errorf("error creating content: %w", err)
	}
	contentID, _ := res.LastInsertId()
	content.ID = int(contentID)
	content.UpdatedOn = now

	return pageID, nil
}
