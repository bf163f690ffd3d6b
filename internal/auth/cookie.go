// AngelaMos | 2026
// cookie.go

package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zyclope0/mathakine-sub004/internal/config"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

// CookieManager owns the refresh cookie. The refresh token travels only
// through this cookie: never in a JSON body, header, or log line.
type CookieManager struct {
	name   string
	path   string
	domain string
	secure bool
	ttl    time.Duration
}

func NewCookieManager(cfg config.AuthConfig) *CookieManager {
	return &CookieManager{
		name:   cfg.CookieName,
		path:   cfg.CookiePath,
		domain: cfg.CookieDomain,
		secure: cfg.CookieSecure,
		ttl:    cfg.RefreshTokenExpire,
	}
}

func (c *CookieManager) SetRefresh(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    token,
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   int(c.ttl / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// Clear re-issues the cookie with identical name, path, domain, and
// flags but an already-past expiry. Attribute parity is required:
// browsers treat a cookie with different attributes as a different
// cookie and leave the original in place.
func (c *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    "",
		Path:     c.path,
		Domain:   c.domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteNoneMode,
	})
}

// ReadRefresh extracts the refresh token from the cookie, the only
// transport the server accepts it on.
func (c *CookieManager) ReadRefresh(r *http.Request) (string, error) {
	cookie, err := r.Cookie(c.name)
	if err != nil || cookie.Value == "" {
		return "", fmt.Errorf("read refresh cookie: %w", core.ErrUnauthorized)
	}
	return cookie.Value, nil
}
