// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

type fakeAccounts struct {
	byUsername map[string]*AccountInfo
}

func (f *fakeAccounts) GetByUsername(
	_ context.Context,
	username string,
) (*AccountInfo, error) {
	if account, ok := f.byUsername[username]; ok {
		return account, nil
	}
	return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
}

func (f *fakeAccounts) GetByID(
	_ context.Context,
	id string,
) (*AccountInfo, error) {
	for _, account := range f.byUsername {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, fmt.Errorf("get account: %w", core.ErrNotFound)
}

func newTestService(t *testing.T, accounts *fakeAccounts) *Service {
	t.Helper()

	tokens, err := NewTokenManager(testAuthConfig())
	require.NoError(t, err)

	return NewService(accounts, tokens, 45*time.Minute)
}

func testAccount(t *testing.T, password string) *AccountInfo {
	t.Helper()

	hash, err := core.HashPassword(password)
	require.NoError(t, err)

	return &AccountInfo{
		ID:              "9e5b3a4e-0000-0000-0000-000000000001",
		Username:        "yoda",
		Email:           "yoda@example.com",
		PasswordHash:    hash,
		Role:            authz.RoleLearner,
		IsEmailVerified: true,
		CreatedAt:       time.Now().Add(-time.Hour),
	}
}

func TestLogin(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	svc := newTestService(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	result, err := svc.Login(context.Background(), "yoda", "correct horse battery")
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
	assert.Equal(t, "yoda", result.Identity.Username)
	assert.Equal(t, authz.ScopeFull, result.Identity.AccessScope)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	svc := newTestService(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	_, errPassword := svc.Login(context.Background(), "yoda", "wrong")
	_, errUsername := svc.Login(context.Background(), "nobody", "wrong")

	assert.ErrorIs(t, errPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, errUsername, ErrInvalidCredentials)
	assert.Equal(t, errPassword.Error(), errUsername.Error())
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	svc := newTestService(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	login, err := svc.Login(context.Background(), "yoda", "correct horse battery")
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.tokens.Verify(
		context.Background(),
		access,
		TokenKindAccess,
	)
	require.NoError(t, err)
	assert.Equal(t, "yoda", claims.Subject)
	assert.Equal(t, authz.RoleLearner, claims.Role)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	account := testAccount(t, "correct horse battery")
	svc := newTestService(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	login, err := svc.Login(context.Background(), "yoda", "correct horse battery")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestIdentityRecomputesScope(t *testing.T) {
	account := testAccount(t, "pw12345678")
	account.IsEmailVerified = false
	account.CreatedAt = time.Now().Add(-2 * time.Hour)

	svc := newTestService(t, &fakeAccounts{
		byUsername: map[string]*AccountInfo{"yoda": account},
	})

	identity, err := svc.Identity(context.Background(), "yoda")
	require.NoError(t, err)
	assert.Equal(t, authz.ScopeExercisesOnly, identity.AccessScope)

	account.IsEmailVerified = true

	identity, err = svc.Identity(context.Background(), "yoda")
	require.NoError(t, err)
	assert.Equal(t, authz.ScopeFull, identity.AccessScope)
}
