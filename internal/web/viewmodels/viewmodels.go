package viewmodels

import (
	"html/template"

	"wikiref/internal/models"
)

// PageNode is a wiki page with its children, used for the page index.
type PageNode struct {
	models.WikiPage
	Children []*PageNode
}

// PageData is a unified struct to hold all possible data for any page.
type PageData struct {
	Projects    []models.Project
	Project     models.Project
	Wiki        models.Wiki
	Page        *models.WikiPage // The current page being viewed
	Content     template.HTML
	Sidebar     template.HTML
	PageTree    []*PageNode // The page index
	CurrentUser *models.User
	IsLoggedIn  bool
	Error       string
}

// BuildPageTree takes a flat list of pages (already sorted by id) and
// organizes them into a hierarchical tree. Pages whose parent is missing are
// dropped.
func BuildPageTree(pages []models.WikiPage) []*PageNode {
	nodes := make(map[int]*PageNode, len(pages))
	for _, p := range pages {
		nodes[p.ID] = &PageNode{WikiPage: p}
	}

	var roots []*PageNode
	// Iterate over the original sorted slice to maintain order.
	for _, p := range pages {
		node := nodes[p.ID]
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[*node.ParentID]; ok {
			parent.Children = append(parent.Children, node)
		}
	}
	return roots
}
