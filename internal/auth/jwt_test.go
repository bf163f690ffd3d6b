// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/config"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		Secret:             "0123456789abcdef0123456789abcdef",
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "mathakine",
		Audience:           "mathakine-api",
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	token, err := manager.IssueAccessToken("yoda", authz.RoleModerator)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Verify(context.Background(), token, TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "yoda", claims.Subject)
	assert.Equal(t, authz.RoleModerator, claims.Role)
	assert.Equal(t, TokenKindAccess, claims.Kind)
	assert.WithinDuration(
		t,
		time.Now().Add(15*time.Minute),
		claims.ExpiresAt,
		time.Minute,
	)
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	token, err := manager.IssueAccessToken("yoda", authz.RoleLearner)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = manager.Verify(context.Background(), tampered, TokenKindAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	refresh, err := manager.IssueRefreshToken("yoda", authz.RoleLearner)
	require.NoError(t, err)

	// A refresh token presented as an access token must fail, and the
	// failure is indistinguishable from any other invalid token.
	_, err = manager.Verify(context.Background(), refresh, TokenKindAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	access, err := manager.IssueAccessToken("yoda", authz.RoleLearner)
	require.NoError(t, err)

	_, err = manager.Verify(context.Background(), access, TokenKindRefresh)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	cfg := testAuthConfig()
	cfg.AccessTokenExpire = -time.Minute

	manager, err := NewTokenManager(cfg)
	require.NoError(t, err)

	token, err := manager.IssueAccessToken("yoda", authz.RoleLearner)
	require.NoError(t, err)

	_, err = manager.Verify(context.Background(), token, TokenKindAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	other := testAuthConfig()
	other.Issuer = "someone-else"

	foreign, err := NewTokenManager(other)
	require.NoError(t, err)

	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	token, err := foreign.IssueAccessToken("yoda", authz.RoleLearner)
	require.NoError(t, err)

	_, err = manager.Verify(context.Background(), token, TokenKindAccess)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	manager, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := manager.Verify(context.Background(), input, TokenKindAccess)
		assert.ErrorIs(t, err, core.ErrTokenInvalid)
	}
}
