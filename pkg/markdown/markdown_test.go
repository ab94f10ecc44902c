package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("Hi **Ana**,\n\n- one\n- two")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>Ana</strong>")
	assert.Contains(t, out, "<li>one</li>")
}

func TestRenderSanitises(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderLinks(t *testing.T) {
	out, err := NewRenderer().Render("see https://example.com/jobs")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://example.com/jobs"`)
	assert.Contains(t, out, `rel="nofollow`)
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "bold", StripTags("<b>bold</b>"))
}
