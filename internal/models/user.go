package models

// User is an account that can sign in and be granted permissions on projects.
type User struct {
	ID          int
	Login       string
	DisplayName string
	Admin       bool
}

// Member grants a user a set of named permissions on one project.
type Member struct {
	ProjectID   int
	UserID      int
	Permissions []string
}
