package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	t.Run("formats markdown", func(t *testing.T) {
		out, err := r.Render("**Leadership** coach\n\n- career\n- mindset")
		require.NoError(t, err)
		assert.Contains(t, out, "<strong>Leadership</strong>")
		assert.Contains(t, out, "<li>career</li>")
	})

	t.Run("strips scripts and images", func(t *testing.T) {
		out, err := r.Render("hi <script>alert(1)</script> ![x](http://evil/x.png)")
		require.NoError(t, err)
		assert.NotContains(t, out, "<script")
		assert.NotContains(t, out, "<img")
	})

	t.Run("external links get nofollow", func(t *testing.T) {
		out, err := r.Render("[site](https://example.com)")
		require.NoError(t, err)
		assert.Contains(t, out, `rel="nofollow`)
		assert.Contains(t, out, `target="_blank"`)
	})

	t.Run("javascript urls removed", func(t *testing.T) {
		out, err := r.Render("[x](javascript:alert(1))")
		require.NoError(t, err)
		assert.NotContains(t, out, "javascript:")
	})

	t.Run("empty input", func(t *testing.T) {
		out, err := r.Render("   ")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := r.Render(strings.Repeat("a", MaxSourceLength+1))
		assert.Error(t, err)
	})
}
