package layout

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johndosdos/warbler/internal/flash"
	"github.com/johndosdos/warbler/internal/model"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPageComponent(t *testing.T) {
	body := templ.Raw("<p>page body</p>")

	t.Run("anonymous", func(t *testing.T) {
		html := renderString(t, Page("Home", nil,
			[]flash.Message{{Category: flash.Danger, Text: "Access unauthorized."}}, body))

		assert.Contains(t, html, "<!doctype html>")
		assert.Contains(t, html, "<title>Home | Warbler</title>")
		assert.Contains(t, html, `<div class="alert alert-danger" role="alert">Access unauthorized.</div>`)
		assert.Contains(t, html, "<p>page body</p>")
		assert.Contains(t, html, `href="/signup"`)
		assert.NotContains(t, html, `id="notifications"`)
	})

	t.Run("viewer", func(t *testing.T) {
		viewer := &model.Viewer{ID: 8989, Username: "testuser", ImageURL: "/static/images/default-pic.png"}
		html := renderString(t, Page("Home", viewer, nil, body))

		assert.Contains(t, html, `action="/logout"`)
		assert.Contains(t, html, `href="/users/8989"`)
		assert.Contains(t, html, `src="/static/images/default-pic.png"`)
		assert.Contains(t, html, `data-ws="/ws"`)
		assert.NotContains(t, html, "alert-")
	})

	t.Run("escapes_title", func(t *testing.T) {
		html := renderString(t, Page("<b>x</b>", nil, nil, body))
		assert.Contains(t, html, "<title>&lt;b&gt;x&lt;/b&gt; | Warbler</title>")
	})
}

func TestNotFoundComponent(t *testing.T) {
	html := renderString(t, NotFound("User"))
	assert.Contains(t, html, "<p>User not found.</p>")
	assert.Contains(t, html, `href="/"`)
}
