// AngelaMos | 2026
// cookie_test.go

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/config"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

func testCookieManager() *CookieManager {
	return NewCookieManager(config.AuthConfig{
		CookieName:         "refresh_token",
		CookiePath:         "/",
		CookieDomain:       "example.com",
		CookieSecure:       true,
		RefreshTokenExpire: 168 * time.Hour,
	})
}

func TestSetRefreshAttributes(t *testing.T) {
	rec := httptest.NewRecorder()
	testCookieManager().SetRefresh(rec, "token-value")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, "refresh_token", c.Name)
	assert.Equal(t, "token-value", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
	assert.Equal(t, int(168*time.Hour/time.Second), c.MaxAge)
}

func TestClearMatchesSetAttributes(t *testing.T) {
	// Clearing only works when name, path, domain, and flags match the
	// original cookie exactly; a mismatched attribute leaves the real
	// cookie alive in the browser.
	manager := testCookieManager()

	setRec := httptest.NewRecorder()
	manager.SetRefresh(setRec, "token-value")
	set := setRec.Result().Cookies()[0]

	clearRec := httptest.NewRecorder()
	manager.Clear(clearRec)
	cleared := clearRec.Result().Cookies()[0]

	assert.Equal(t, set.Name, cleared.Name)
	assert.Equal(t, set.Path, cleared.Path)
	assert.Equal(t, set.Domain, cleared.Domain)
	assert.Equal(t, set.HttpOnly, cleared.HttpOnly)
	assert.Equal(t, set.Secure, cleared.Secure)
	assert.Equal(t, set.SameSite, cleared.SameSite)

	assert.Empty(t, cleared.Value)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.False(t, cleared.Expires.After(time.Unix(1, 0)))
}

func TestReadRefresh(t *testing.T) {
	manager := testCookieManager()

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	r.AddCookie(&http.Cookie{Name: "refresh_token", Value: "token-value"})

	token, err := manager.ReadRefresh(r)
	require.NoError(t, err)
	assert.Equal(t, "token-value", token)
}

func TestReadRefreshMissingCookie(t *testing.T) {
	manager := testCookieManager()

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)

	_, err := manager.ReadRefresh(r)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestReadRefreshIgnoresOtherTransports(t *testing.T) {
	// A token in the body or a header is not a transport the server
	// accepts; only the cookie counts.
	manager := testCookieManager()

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", nil)
	r.Header.Set("X-Refresh-Token", "token-value")

	_, err := manager.ReadRefresh(r)
	assert.ErrorIs(t, err, core.ErrUnauthorized)
}
