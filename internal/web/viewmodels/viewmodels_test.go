package viewmodels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wikiref/internal/models"
)

func intPtr(i int) *int { return &i }

func TestBuildPageTree(t *testing.T) {
	pages := []models.WikiPage{
		{ID: 1, Title: "Root"},
		{ID: 2, Title: "Child", ParentID: intPtr(1)},
		{ID: 3, Title: "Other root"},
		{ID: 4, Title: "Grandchild", ParentID: intPtr(2)},
		{ID: 5, Title: "Orphan", ParentID: intPtr(99)},
	}

	roots := BuildPageTree(pages)
	require.Len(t, roots, 2)
	assert.Equal(t, "Root", roots[0].Title)
	assert.Equal(t, "Other root", roots[1].Title)

	require.Len(t, roots[0].Children, 1)
	child := roots[0].Children[0]
	assert.Equal(t, "Child", child.Title)
	require.Len(t, child.Children, 1)
	assert.Equal(t, "Grandchild", child.Children[0].Title)
}
