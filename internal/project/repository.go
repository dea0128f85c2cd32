package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/gosimple/slug"

	"wikiref/internal/models"
	"wikiref/internal/page"
)

// ErrInvalidIdentifier is returned when no identifier can be derived for a
// new project.
var ErrInvalidIdentifier = errors.New("project identifier is empty")

// Repository provides access to the project storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new project repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByIdentifier finds a project by its identifier.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.Project, error) {
	return r.findOne(ctx, "SELECT id, identifier, name, is_public FROM projects WHERE identifier = ?", identifier)
}

// FindByName finds a project by its display name. Names are not unique, the
// lowest id wins.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Project, error) {
	return r.findOne(ctx, "SELECT id, identifier, name, is_public FROM projects WHERE name = ? ORDER BY id LIMIT 1", name)
}

// FindByID finds a project by its primary key.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Project, error) {
	return r.findOne(ctx, "SELECT id, identifier, name, is_public FROM projects WHERE id = ?", id)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*models.Project, error) {
	var project models.Project
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&project.ID, &project.Identifier, &project.Name, &project.IsPublic)
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// List lists all projects ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Project, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, identifier, name, is_public FROM projects ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Identifier, &project.Name, &project.IsPublic); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// Create creates a new project. A blank identifier is derived from the name.
func (r *Repository) Create(ctx context.Context, name, identifier string, isPublic bool) (*models.Project, error) {
	if identifier == "" {
		identifier = slug.Make(name)
	}
	if identifier == "" {
		return nil, ErrInvalidIdentifier
	}

	res, err := r.DB.ExecContext(ctx, "INSERT INTO projects (name, identifier, is_public) VALUES (?, ?, ?)", name, identifier, isPublic)
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	id, _ := res.LastInsertId()

	return &models.Project{ID: int(id), Identifier: identifier, Name: name, IsPublic: isPublic}, nil
}

// EnableWiki creates the project's wiki together with a start page and its
// initial content in a transaction. The wiki's start page is the new page's id.
func (r *Repository) EnableWiki(ctx context.Context, project *models.Project, authorID int) (*models.Wiki, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO wikis (project_id, start_page) VALUES (?, '')", project.ID)
	if err != nil {
		return nil, fmt.Errorf("error creating wiki: %w", err)
	}
	wikiID, _ := res.LastInsertId()

	home := &models.WikiPage{WikiID: int(wikiID), Title: "Wiki"}
	content := &models.WikiContent{
		Text:     fmt.Sprintf("* Welcome to the %s wiki!", project.Name),
		AuthorID: authorID,
	}
	if _, err := page.InsertTx(ctx, tx, home, content); err != nil {
		return nil, err
	}

	startPage := strconv.Itoa(home.ID)
	if _, err := tx.ExecContext(ctx, "UPDATE wikis SET start_page = ? WHERE id = ?", startPage, wikiID); err != nil {
		return nil, fmt.Errorf("error setting start page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}
	return &models.Wiki{ID: int(wikiID), ProjectID: project.ID, StartPage: startPage}, nil
}
