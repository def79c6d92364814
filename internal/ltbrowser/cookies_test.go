package ltbrowser

import (
	"context"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ltsync/internal/testutil"
)

func TestLoadCookiesMissingJar(t *testing.T) {
	env := testutil.NewTestEnv(t)
	s := stubSession(t)

	err := s.LoadCookies(context.Background(), env.Path("missing.json"))
	assert.Error(t, err)
}

func TestLoadCookiesMalformedJar(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("cookies.json", "{broken")
	s := stubSession(t)

	err := s.LoadCookies(context.Background(), env.Path("cookies.json"))
	assert.Error(t, err)
}

func TestLoadCookiesReplaysJar(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("cookies.json", `[
		{"name": "cookie_id", "value": "abc", "domain": ".librarything.com", "path": "/", "expires": 1924992000.5, "httpOnly": true, "secure": true},
		{"name": "session", "value": "xyz", "domain": "www.librarything.com", "path": "/", "expires": -1}
	]`)
	s := stubSession(t)

	ran := false
	stubRunner(t, func(ctx context.Context, actions ...chromedp.Action) error {
		ran = true
		return nil
	})

	require.NoError(t, s.LoadCookies(context.Background(), env.Path("cookies.json")))
	assert.True(t, ran, "cookie replay should reach the browser")
}
