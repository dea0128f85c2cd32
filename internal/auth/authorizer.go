package auth

import (
	"context"
	"slices"

	"wikiref/internal/models"
	"wikiref/internal/wiki"
)

// ProjectFinder loads a project by id.
type ProjectFinder interface {
	FindByID(ctx context.Context, id int) (*models.Project, error)
}

// Authorizer decides project permissions from user flags and memberships.
// Admins hold every permission. Members hold the permissions they were
// granted. Any signed-in user may view the wiki of a public project.
type Authorizer struct {
	Repo     *Repository
	Projects ProjectFinder
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(repo *Repository, projects ProjectFinder) *Authorizer {
	return &Authorizer{Repo: repo, Projects: projects}
}

// AllowedTo reports whether user holds perm on the project.
func (a *Authorizer) AllowedTo(ctx context.Context, user *models.User, perm wiki.Permission, projectID int) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.Admin {
		return true, nil
	}

	perms, err := a.Repo.MemberPermissions(ctx, user.ID, projectID)
	if err != nil {
		return false, err
	}
	if slices.Contains(perms, string(perm)) {
		return true, nil
	}

	if perm != wiki.PermissionViewWikiPages {
		return false, nil
	}
	project, err := a.Projects.FindByID(ctx, projectID)
	if err != nil {
		return false, err
	}
	return project.IsPublic, nil
}
