package redirect

import (
	"context"
	"database/sql"
	"fmt"

	"wikiref/internal/models"
)

// Repository provides access to the wiki redirect storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new redirect repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Create inserts a new redirect record into the database. Redirects are
// written when a page is renamed, which happens outside this module; Create
// exists for seeding and tests.
func (r *Repository) Create(ctx context.Context, redirect *models.WikiRedirect) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO wiki_redirects (wiki_id, title, redirects_to, redirects_to_wiki_id) VALUES (?, ?, ?, ?)",
		redirect.WikiID, redirect.Title, redirect.RedirectsTo, redirect.RedirectsToWikiID)
	if err != nil {
		return fmt.Errorf("error creating redirect: %w", err)
	}
	id, _ := res.LastInsertId()
	redirect.ID = int(id)
	return nil
}

// ListForWiki lists the redirects that start from or point to a wiki.
func (r *Repository) ListForWiki(ctx context.Context, wikiID int) ([]models.WikiRedirect, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, wiki_id, title, redirects_to, redirects_to_wiki_id FROM wiki_redirects WHERE wiki_id = ? OR redirects_to_wiki_id = ? ORDER BY id",
		wikiID, wikiID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var redirects []models.WikiRedirect
	for rows.Next() {
		var redirect models.WikiRedirect
		if err := rows.Scan(&redirect.ID, &redirect.WikiID, &redirect.Title, &redirect.RedirectsTo, &redirect.RedirectsToWikiID); err != nil {
			return nil, err
		}
		redirects = append(redirects, redirect)
	}
	return redirects, rows.Err()
}

// DeleteForWiki deletes every redirect from or to a wiki and returns how
// many rows were removed.
func (r *Repository) DeleteForWiki(ctx context.Context, wikiID int) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM wiki_redirects WHERE wiki_id = ? OR redirects_to_wiki_id = ?", wikiID, wikiID)
	if err != nil {
		return 0, fmt.Errorf("error deleting redirects of wiki %d: %w", wikiID, err)
	}
	return res.RowsAffected()
}
