package models

// Project owns at most one wiki. It is addressed by its unique identifier
// or, failing that, by its name.
type Project struct {
	ID         int
	Identifier string
	Name       string
	IsPublic   bool
}
