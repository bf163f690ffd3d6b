// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/config"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

// TokenKind distinguishes the two token flavors minted per login. A
// token presented where the other kind is expected fails verification.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type Claims struct {
	Subject   string
	Role      authz.Role
	Kind      TokenKind
	ExpiresAt time.Time
}

// TokenManager signs and verifies both token kinds with one shared
// secret and one algorithm (HS256). Tokens are stateless: verification
// needs no store, so concurrent refreshes never contend.
type TokenManager struct {
	key    jwk.Key
	config config.AuthConfig
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import signing secret: %w", err)
	}

	if setErr := key.Set(jwk.AlgorithmKey, jwa.HS256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	return &TokenManager{
		key:    key,
		config: cfg,
	}, nil
}

func (m *TokenManager) IssueAccessToken(
	subject string,
	role authz.Role,
) (string, error) {
	return m.issue(subject, role, TokenKindAccess, m.config.AccessTokenExpire)
}

func (m *TokenManager) IssueRefreshToken(
	subject string,
	role authz.Role,
) (string, error) {
	return m.issue(subject, role, TokenKindRefresh, m.config.RefreshTokenExpire)
}

func (m *TokenManager) issue(
	subject string,
	role authz.Role,
	kind TokenKind,
	ttl time.Duration,
) (string, error) {
	now := time.Now()

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(subject).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		NotBefore(now).
		Claim("role", role.String()).
		Claim("type", string(kind)).
		Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

// Verify checks signature, expiry, issuer, audience, and the kind claim.
// Every failure collapses into the same generic invalid-token error so
// callers cannot tell which check rejected the token.
func (m *TokenManager) Verify(
	ctx context.Context,
	tokenString string,
	kind TokenKind,
) (*Claims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != string(kind) {
		return nil, fmt.Errorf(
			"verify token: wrong kind: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var roleStr string
	if err := token.Get("role", &roleStr); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	role, err := authz.ParseRole(roleStr)
	if err != nil {
		return nil, fmt.Errorf(
			"verify token: bad role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	expiresAt, _ := token.Expiration()

	return &Claims{
		Subject:   subject,
		Role:      role,
		Kind:      kind,
		ExpiresAt: expiresAt,
	}, nil
}
