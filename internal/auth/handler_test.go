// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/middleware"
)

func newTestRouter(t *testing.T, accounts *fakeAccounts) (*chi.Mux, *CookieManager) {
	t.Helper()

	svc := newTestService(t, accounts)
	cookies := testCookieManager()
	handler := NewHandler(svc, cookies, 15*time.Minute)

	authenticator := middleware.Authenticator(testVerifier{tokens: svc.tokens})

	router := chi.NewRouter()
	handler.RegisterRoutes(router, authenticator)
	return router, cookies
}

type testVerifier struct {
	tokens *TokenManager
}

func (v testVerifier) VerifyAccess(
	ctx context.Context,
	token string,
) (*middleware.TokenClaims, error) {
	claims, err := v.tokens.Verify(ctx, token, TokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &middleware.TokenClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}

func TestLoginSetsRefreshCookieOnly(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	body := `{"username":"yoda","password":"correct horse battery"}`
	req := httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(body),
	)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	refreshToken := cookies[0].Value
	require.NotEmpty(t, refreshToken)

	// The refresh token never appears in the JSON body.
	assert.NotContains(t, rec.Body.String(), refreshToken)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int    `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEqual(t, refreshToken, envelope.Data.AccessToken)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, int(15*time.Minute/time.Second), envelope.Data.ExpiresIn)
}

func TestLoginBadCredentials(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	for _, body := range []string{
		`{"username":"yoda","password":"wrong-password"}`,
		`{"username":"nobody","password":"wrong-password"}`,
	} {
		req := httptest.NewRequest(
			http.MethodPost,
			"/auth/login",
			strings.NewReader(body),
		)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestRefreshWithoutCookieFailsBeforeDecoding(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshWithCookie(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	loginReq := httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(`{"username":"yoda","password":"correct horse battery"}`),
	)
	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, loginReq)
	require.Equal(t, http.StatusOK, loginRec.Code)

	refreshCookie := loginRec.Result().Cookies()[0]

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(refreshCookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), refreshCookie.Value)

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)
}

func TestRefreshWithGarbageCookie(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "garbage"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookie(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	router, _ := newTestRouter(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	loginRec := httptest.NewRecorder()
	router.ServeHTTP(loginRec, httptest.NewRequest(
		http.MethodPost,
		"/auth/login",
		strings.NewReader(`{"username":"yoda","password":"correct horse battery"}`),
	))
	require.Equal(t, http.StatusOK, loginRec.Code)

	var loginEnvelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(loginRec.Body.Bytes(), &loginEnvelope))

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+loginEnvelope.Data.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
