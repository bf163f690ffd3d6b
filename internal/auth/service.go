// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountInfo is the slice of account state the auth flow needs.
type AccountInfo struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	Role            authz.Role
	IsEmailVerified bool
	CreatedAt       time.Time
}

type AccountProvider interface {
	GetByUsername(ctx context.Context, username string) (*AccountInfo, error)
	GetByID(ctx context.Context, id string) (*AccountInfo, error)
}

// Identity is the caller-facing view of an account, including the
// access scope resolved at the moment of the request.
type Identity struct {
	ID              string
	Username        string
	Email           string
	Role            authz.Role
	AccessScope     authz.AccessScope
	IsEmailVerified bool
	CreatedAt       time.Time
}

type Service struct {
	accounts AccountProvider
	tokens   *TokenManager
	grace    time.Duration
	now      func() time.Time
}

func NewService(
	accounts AccountProvider,
	tokens *TokenManager,
	grace time.Duration,
) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		grace:    grace,
		now:      time.Now,
	}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Identity     Identity
}

// Login verifies credentials and mints an access/refresh pair. An
// unknown username still pays for a full hash verification, and both
// failure modes collapse into the same error.
func (s *Service) Login(
	ctx context.Context,
	username, password string,
) (*LoginResult, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if !core.VerifyPasswordTimingSafe(password, &account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(account.Username, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(
		account.Username,
		account.Role,
	)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     s.toIdentity(account),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token bound
// to the same subject and role. The refresh token itself stays valid
// until its own expiry; there is no rotation or revocation list.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (string, error) {
	claims, err := s.tokens.Verify(ctx, refreshToken, TokenKindRefresh)
	if err != nil {
		return "", err
	}

	accessToken, err := s.tokens.IssueAccessToken(claims.Subject, claims.Role)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return accessToken, nil
}

// Identity looks up the account behind a subject and recomputes its
// access scope against the current clock.
func (s *Service) Identity(
	ctx context.Context,
	username string,
) (*Identity, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	identity := s.toIdentity(account)
	return &identity, nil
}

func (s *Service) toIdentity(account *AccountInfo) Identity {
	return Identity{
		ID:       account.ID,
		Username: account.Username,
		Email:    account.Email,
		Role:     account.Role,
		AccessScope: authz.ResolveScope(
			account.IsEmailVerified,
			account.CreatedAt,
			s.now(),
			s.grace,
		),
		IsEmailVerified: account.IsEmailVerified,
		CreatedAt:       account.CreatedAt,
	}
}
