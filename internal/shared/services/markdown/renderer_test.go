package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_BasicProse(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("The gate *creaked* open.")
	require.NoError(t, err)
	assert.Contains(t, out, "<em>creaked</em>")
	assert.True(t, strings.HasPrefix(out, "<p>"))
}

func TestRenderer_HardWrapsKeepLineBreaks(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("line one\nline two")
	require.NoError(t, err)
	assert.Contains(t, out, "<br")
}

func TestRenderer_StripsScriptTags(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert(1)</script> world")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hello")
}

func TestRenderer_StripsEventHandlers(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render(`<img src="x" onerror="alert(1)">`)
	require.NoError(t, err)
	assert.NotContains(t, out, "onerror")
}
