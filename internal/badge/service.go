// AngelaMos | 2026
// service.go

package badge

import (
	"context"
	"fmt"

	"github.com/zyclope0/mathakine-sub004/internal/auth"
	"github.com/zyclope0/mathakine-sub004/internal/authz"
	"github.com/zyclope0/mathakine-sub004/internal/cache"
)

const statsCacheKey = "stats:aggregate"

type AccountDirectory interface {
	GetByUsername(ctx context.Context, username string) (*auth.AccountInfo, error)
}

type Service struct {
	repo     Repository
	accounts AccountDirectory
	cache    *cache.Cache
}

func NewService(
	repo Repository,
	accounts AccountDirectory,
	statsCache *cache.Cache,
) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		cache:    statsCache,
	}
}

// List is available in every scope; badge browsing stays open during
// the restricted window.
func (s *Service) List(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
) ([]Badge, error) {
	if err := authz.Decide(role, scope, authz.ActionListBadges, false); err != nil {
		return nil, err
	}

	return s.repo.List(ctx)
}

func (s *Service) ListMine(
	ctx context.Context,
	username string,
	role authz.Role,
	scope authz.AccessScope,
) ([]AwardedBadge, error) {
	if err := authz.Decide(role, scope, authz.ActionListBadges, false); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return s.repo.ListForAccount(ctx, account.ID)
}

// AwardByCode grants a named badge to an account. Re-awarding is a
// no-op. This is the internal grant path used by gameplay services;
// it carries no authorization gate.
func (s *Service) AwardByCode(
	ctx context.Context,
	accountID, code string,
) error {
	badge, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}

	return s.repo.Award(ctx, accountID, badge.ID)
}

// Stats serves aggregates through the read-through cache so the
// attempt-table scans run at most once per TTL.
func (s *Service) Stats(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
) (*Stats, error) {
	if err := authz.Decide(role, scope, authz.ActionViewStatistics, false); err != nil {
		return nil, err
	}

	value, err := s.cache.Get(ctx, statsCacheKey, func(ctx context.Context) (any, error) {
		return s.repo.Stats(ctx)
	})
	if err != nil {
		return nil, err
	}

	stats, ok := value.(*Stats)
	if !ok {
		return nil, fmt.Errorf("unexpected cached stats type %T", value)
	}

	return stats, nil
}
