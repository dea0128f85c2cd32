package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderHeadline(t *testing.T) {
	out, err := Render("* Welcome\nSome text.")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Welcome")
	assert.Contains(t, string(out), "Some text.")
}

func TestRenderCodeBlockIsHighlighted(t *testing.T) {
	out, err := Render("#+begin_src go\nfunc main() {}\n#+end_src\n")
	require.NoError(t, err)
	assert.Contains(t, string(out), "class=")
	assert.Contains(t, string(out), "main")
}
