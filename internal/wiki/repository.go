package wiki

import (
	"context"
	"database/sql"
	"fmt"

	"wikiref/internal/models"
)

// Repository provides access to the wiki storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new wiki repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByProject finds the wiki attached to a project.
func (r *Repository) FindByProject(ctx context.Context, projectID int) (*models.Wiki, error) {
	var wiki models.Wiki
	err := r.DB.QueryRowContext(ctx, "SELECT id, project_id, start_page FROM wikis WHERE project_id = ?", projectID).
		Scan(&wiki.ID, &wiki.ProjectID, &wiki.StartPage)
	if err != nil {
		return nil, err
	}
	return &wiki, nil
}

// FindByID finds a wiki by its primary key.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Wiki, error) {
	var wiki models.Wiki
	err := r.DB.QueryRowContext(ctx, "SELECT id, project_id, start_page FROM wikis WHERE id = ?", id).
		Scan(&wiki.ID, &wiki.ProjectID, &wiki.StartPage)
	if err != nil {
		return nil, err
	}
	return &wiki, nil
}

// SetStartPage changes the identifier used for blank lookups.
func (r *Repository) SetStartPage(ctx context.Context, wikiID int, startPage string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE wikis SET start_page = ? WHERE id = ?", startPage, wikiID)
	if err != nil {
		return fmt.Errorf("error updating start page: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a wiki with its pages and their contents in a transaction.
// Redirects are not touched here; see Resolver.Destroy.
func (r *Repository) Delete(ctx context.Context, wikiID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM wiki_contents WHERE page_id IN (SELECT id FROM wiki_pages WHERE wiki_id = ?)", wikiID); err != nil {
		return fmt.Errorf("error deleting contents: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM wiki_pages WHERE wiki_id = ?", wikiID); err != nil {
		return fmt.Errorf("error deleting pages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM wikis WHERE id = ?", wikiID); err != nil {
		return fmt.Errorf("error deleting wiki: %w", err)
	}

	return tx.Commit()
}
