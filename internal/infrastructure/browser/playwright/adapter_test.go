package playwright

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageHTML = `<!DOCTYPE html>
<html>
<head><title>Playwright Page</title></head>
<body>
	<input id="q" type="search" placeholder="Search" />
	<button id="hidden" style="display:none">Hidden</button>
	<a href="/other" target="_blank" id="popup">Open</a>
</body>
</html>`

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.Headless)
	assert.True(t, cfg.Install)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestPage_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, pageHTML)
	}))
	defer server.Close()

	ctx := context.Background()
	adapter, err := NewBrowserAdapter(ctx, DefaultConfig())
	require.NoError(t, err)
	defer adapter.Close()

	page, err := adapter.NewPage(ctx)
	require.NoError(t, err)
	require.NoError(t, page.Goto(ctx, server.URL))

	title, err := page.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Playwright Page", title)

	raw, err := page.Evaluate(ctx, `(sel) => document.querySelectorAll(sel).length`, "input, button, a")
	require.NoError(t, err)
	assert.Equal(t, "3", string(raw))

	elements, err := page.QueryAll(ctx, "#q, #hidden")
	require.NoError(t, err)
	require.Len(t, elements, 2)

	hidden, err := elements[1].BoundingBox(ctx)
	require.NoError(t, err)
	assert.Nil(t, hidden)

	require.NoError(t, elements[0].Fill(ctx, "gopher"))
	raw, err = page.Evaluate(ctx, `() => document.getElementById('q').value`)
	require.NoError(t, err)
	assert.Equal(t, `"gopher"`, string(raw))

	links, err := page.QueryAll(ctx, "#popup")
	require.NoError(t, err)
	opened, err := page.ExpectNewPage(ctx, 3*time.Second, func() error {
		return links[0].Click(ctx)
	})
	require.NoError(t, err)
	require.NotNil(t, opened)
	assert.Contains(t, opened.URL(), "/other")

	path := filepath.Join(t.TempDir(), "page.pdf")
	require.NoError(t, page.PDF(ctx, path))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestPage_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Page{}
	assert.ErrorIs(t, p.Goto(ctx, "https://example.com"), context.Canceled)
	_, err := p.QueryAll(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)

	e := &Element{}
	assert.ErrorIs(t, e.Click(ctx), context.Canceled)
}
