package browser

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

const loginPage = `<!doctype html>
<html><body>
<form id="f" onsubmit="event.preventDefault(); document.getElementById('out').textContent = document.getElementById('user').value + ':' + document.getElementById('pass').value;">
  <input id="user" type="email" value="stale">
  <input id="pass" type="password">
  <button id="later" type="button" disabled onclick="document.getElementById('out').textContent='forced'">Later</button>
  <button type="submit">Sign In</button>
</form>
<div id="out"></div>
</body></html>`

// Drives a real Chromium, so it only runs when FREEE_CHECKIN_BROWSER_TESTS is set.
func TestSession_AgainstRealBrowser(t *testing.T) {
	if os.Getenv("FREEE_CHECKIN_BROWSER_TESTS") == "" {
		t.Skip("set FREEE_CHECKIN_BROWSER_TESTS=1 to run browser tests")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, loginPage)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	s, err := Launch(ctx, Options{Headless: true, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Goto(srv.URL))
	require.NoError(t, s.WaitForLoadState(LoadStateDOMContentLoaded, 5*time.Second))

	require.NoError(t, s.Fill(`input[type="email"], input[type="text"]`, "alice@example.com"))
	require.NoError(t, s.Fill(`input[type="password"]`, "secret"))
	require.NoError(t, s.Click(`button:has-text("sign in")`, ClickOptions{}))
	require.NoError(t, s.WaitForSelector("#out", WaitOptions{State: StateVisible}))

	out, err := s.Page().MustElement("#out").Text()
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com:secret", out)

	visible, err := s.IsVisible("#later")
	require.NoError(t, err)
	assert.True(t, visible)

	enabled, err := s.IsEnabled("#later")
	require.NoError(t, err)
	assert.False(t, enabled)

	visible, err = s.IsVisible("#missing")
	require.NoError(t, err)
	assert.False(t, visible)

	path := filepath.Join(t.TempDir(), "shot.png")
	require.NoError(t, s.Screenshot(ScreenshotOptions{Path: path, MaxWidth: 320}))
	_, err = os.Stat(path)
	assert.NoError(t, err)

	require.NoError(t, s.Close())
	assert.NoError(t, s.Close(), "second close is a no-op")
}
