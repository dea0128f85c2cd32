package models

import "time"

// Wiki is the page container attached to exactly one project.
type Wiki struct {
	ID        int
	ProjectID int
	StartPage string // identifier used when a lookup is given a blank one
}

// WikiPage is a single page within a wiki, addressed by its numeric ID.
type WikiPage struct {
	ID        int
	WikiID    int
	ParentID  *int
	Title     string
	CreatedOn time.Time
}

// WikiContent is the current text of a page. A page without a content row
// is treated as absent by global resolution.
type WikiContent struct {
	ID        int
	PageID    int
	Text      string
	AuthorID  int
	Comments  *string
	UpdatedOn time.Time
}

// WikiRedirect records that a title in one wiki now lives elsewhere.
type WikiRedirect struct {
	ID                int
	WikiID            int
	Title             string
	RedirectsTo       string
	RedirectsToWikiID int
}
