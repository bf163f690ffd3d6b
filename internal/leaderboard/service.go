// AngelaMos | 2026
// service.go

package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/zyclope0/mathakine-sub004/internal/authz"
)

const scoreKey = "leaderboard:scores"

// Entry is one ranked row on the board. Rank is 1-based.
type Entry struct {
	Rank     int     `json:"rank"`
	Username string  `json:"username"`
	Score    float64 `json:"score"`
}

// Service keeps the running score total in a redis sorted set. The
// attempt tables remain the source of truth; the set is a projection
// that can be rebuilt from them.
type Service struct {
	client *redis.Client
}

func NewService(client *redis.Client) *Service {
	return &Service{client: client}
}

// RecordScore adds points to a member's running total.
func (s *Service) RecordScore(
	ctx context.Context,
	username string,
	points int,
) error {
	if points <= 0 {
		return nil
	}

	if err := s.client.ZIncrBy(
		ctx,
		scoreKey,
		float64(points),
		username,
	).Err(); err != nil {
		return fmt.Errorf("record score: %w", err)
	}

	return nil
}

// Top returns the highest-scoring members. Gating on scope happens in
// the caller through the permission matrix.
func (s *Service) Top(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
	limit int,
) ([]Entry, error) {
	if err := authz.Decide(role, scope, authz.ActionViewLeaderboard, false); err != nil {
		return nil, err
	}

	if limit < 1 || limit > 100 {
		limit = 10
	}

	members, err := s.client.ZRevRangeWithScores(
		ctx,
		scoreKey,
		0,
		int64(limit-1),
	).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(members))
	for i, m := range members {
		username, _ := m.Member.(string)
		entries = append(entries, Entry{
			Rank:     i + 1,
			Username: username,
			Score:    m.Score,
		})
	}

	return entries, nil
}

// RankOf reports a member's rank and score, rank 0 when unranked.
func (s *Service) RankOf(
	ctx context.Context,
	role authz.Role,
	scope authz.AccessScope,
	username string,
) (Entry, error) {
	if err := authz.Decide(role, scope, authz.ActionViewLeaderboard, false); err != nil {
		return Entry{}, err
	}

	rank, err := s.client.ZRevRank(ctx, scoreKey, username).Result()
	if err == redis.Nil {
		return Entry{Username: username}, nil
	}
	if err != nil {
		return Entry{}, fmt.Errorf("read rank: %w", err)
	}

	score, err := s.client.ZScore(ctx, scoreKey, username).Result()
	if err != nil && err != redis.Nil {
		return Entry{}, fmt.Errorf("read score: %w", err)
	}

	return Entry{
		Rank:     int(rank) + 1,
		Username: username,
		Score:    score,
	}, nil
}

// RemoveMember drops a member from the board, used when an account is
// deleted.
func (s *Service) RemoveMember(ctx context.Context, username string) error {
	if err := s.client.ZRem(ctx, scoreKey, username).Err(); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}
