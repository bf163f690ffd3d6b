// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/core"
)

const resetTokenTTL = time.Hour

type Service struct {
	repo        Repository
	coordinator *Coordinator
	grace       time.Duration
	now         func() time.Time
}

func NewService(
	repo Repository,
	coordinator *Coordinator,
	grace time.Duration,
) *Service {
	return &Service{
		repo:        repo,
		coordinator: coordinator,
		grace:       grace,
		now:         time.Now,
	}
}

// Register creates a learner-rank account. New accounts start in the
// grace window with full access until verification runs out.
func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*Account, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        strings.ToLower(req.Email),
		PasswordHash: passwordHash,
		Role:         authz.RoleLearner,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

func (s *Service) GetProfile(
	ctx context.Context,
	username string,
) (*Account, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) UpdateEmail(
	ctx context.Context,
	username, email string,
) (*Account, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateEmail(ctx, account.ID, strings.ToLower(email)); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, account.ID)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	username, currentPassword, newPassword string,
) error {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if !core.VerifyPassword(currentPassword, account.PasswordHash) {
		return auth.ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, account.ID, newHash)
}

// VerifyEmail flips the verification flag, which is a terminal exit
// from the restricted access scope. Delivery and confirmation of the
// verification mail belong to the mailer collaborator.
func (s *Service) VerifyEmail(ctx context.Context, username string) error {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	return s.repo.MarkEmailVerified(ctx, account.ID)
}

// RequestPasswordReset stores a hashed single-use token and returns the
// plaintext for the mailer collaborator. An unknown username reports
// success without storing anything, to avoid account enumeration.
func (s *Service) RequestPasswordReset(
	ctx context.Context,
	username string,
) (string, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := core.GenerateSecureToken(32)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}

	expiresAt := s.now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(
		ctx,
		account.ID,
		core.HashToken(token),
		expiresAt,
	); err != nil {
		return "", err
	}

	return token, nil
}

func (s *Service) ConfirmPasswordReset(
	ctx context.Context,
	token, newPassword string,
) error {
	account, err := s.repo.GetByResetTokenHash(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return auth.ErrInvalidCredentials
		}
		return err
	}

	if !account.HasActiveResetToken(s.now()) {
		return auth.ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, account.ID, newHash); err != nil {
		return err
	}

	return s.repo.ClearResetToken(ctx, account.ID)
}

func (s *Service) UpdateRole(
	ctx context.Context,
	targetID, roleName string,
) (*Account, error) {
	role, err := authz.ParseRole(roleName)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", core.ErrInvalidInput)
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, targetID)
}

func (s *Service) List(
	ctx context.Context,
	params ListAccountsParams,
) ([]Account, int, error) {
	return s.repo.List(ctx, params)
}

// Delete runs the hard-deletion cascade. Owners may delete themselves;
// deleting anyone else is reserved to admin rank via the matrix.
func (s *Service) Delete(
	ctx context.Context,
	requesterUsername string,
	requesterRole authz.Role,
	targetID string,
) error {
	requester, err := s.repo.GetByUsername(ctx, requesterUsername)
	if err != nil {
		return err
	}

	if requester.ID != targetID {
		scope := s.scopeOf(requester)
		if err := authz.Decide(
			requesterRole,
			scope,
			authz.ActionDeleteAccount,
			false,
		); err != nil {
			return err
		}

		if _, err := s.repo.GetByID(ctx, targetID); err != nil {
			return err
		}
	}

	return s.coordinator.DeleteAccount(ctx, targetID)
}

// ResolveScope implements the per-request scope recomputation used by
// the scope-gating middleware.
func (s *Service) ResolveScope(
	ctx context.Context,
	username string,
) (authz.AccessScope, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return 0, err
	}

	return s.scopeOf(account), nil
}

func (s *Service) scopeOf(account *Account) authz.AccessScope {
	return authz.ResolveScope(
		account.IsEmailVerified,
		account.CreatedAt,
		s.now(),
		s.grace,
	)
}

// GetByUsername implements auth.AccountProvider.
func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

// GetByID implements auth.AccountProvider.
func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(account), nil
}

func toAccountInfo(a *Account) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:              a.ID,
		Username:        a.Username,
		Email:           a.Email,
		PasswordHash:    a.PasswordHash,
		Role:            a.Role,
		IsEmailVerified: a.IsEmailVerified,
		CreatedAt:       a.CreatedAt,
	}
}

var _ auth.AccountProvider = (*Service)(nil)
