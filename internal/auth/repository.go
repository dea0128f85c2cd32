package auth

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"wikiref/internal/models"
)

// Repository provides access to the authentication storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new authentication repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindUserByLogin finds a user by their login.
func (r *Repository) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User
	err := r.DB.QueryRowContext(ctx, "SELECT id, login, display_name, admin FROM users WHERE login = ?", login).
		Scan(&user.ID, &user.Login, &user.DisplayName, &user.Admin)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindIdentityByProvider finds an identity by provider and provider user ID.
func (r *Repository) FindIdentityByProvider(ctx context.Context, provider, providerUserID string) (*models.Identity, error) {
	var identity models.Identity
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, provider, provider_user_id, password_hash FROM identities WHERE provider = ? AND provider_user_id = ?",
		provider, providerUserID).Scan(&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderUserID, &identity.PasswordHash)
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// CreateUser creates a new user and a corresponding identity.
func (r *Repository) CreateUser(ctx context.Context, user *models.User, identity *models.Identity) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO users (login, display_name, admin) VALUES (?, ?, ?)", user.Login, user.DisplayName, user.Admin)
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	userID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(userID)
	identity.UserID = user.ID

	_, err = tx.ExecContext(ctx, "INSERT INTO identities (user_id, provider, provider_user_id, password_hash) VALUES (?, ?, ?, ?)",
		identity.UserID, identity.Provider, identity.ProviderUserID, identity.PasswordHash)
	if err != nil {
		return fmt.Errorf("error creating identity: %w", err)
	}

	return tx.Commit()
}

// AddMember grants a user permissions on a project, replacing any earlier
// grant.
func (r *Repository) AddMember(ctx context.Context, member *models.Member) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO members (project_id, user_id, permissions) VALUES (?, ?, ?)
ON CONFLICT (project_id, user_id) DO UPDATE SET permissions = excluded.permissions`,
		member.ProjectID, member.UserID, strings.Join(member.Permissions, ","))
	if err != nil {
		return fmt.Errorf("error adding member: %w", err)
	}
	return nil
}

// MemberPermissions returns the permissions a user holds on a project. A
// user who is not a member holds none.
func (r *Repository) MemberPermissions(ctx context.Context, userID, projectID int) ([]string, error) {
	var raw string
	err := r.DB.QueryRowContext(ctx, "SELECT permissions FROM members WHERE user_id = ? AND project_id = ?", userID, projectID).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var perms []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			perms = append(perms, p)
		}
	}
	return perms, nil
}
