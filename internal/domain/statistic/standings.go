package statistic

import (
	"context"

	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/loyaltap/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

// Standings serves live score rankings of an active challenge from a redis
// sorted set. The participant table stays the source of truth; the set is
// lazily backfilled from it and dropped when the challenge completes.
type Standings interface {
	Change(ctx context.Context, challengeID, userID string, delta int64) error
	Get(ctx context.Context, challengeID string, offset, limit int) ([]model.Standing, error)
	Rank(ctx context.Context, challengeID, userID string) (uint64, error)
	Clear(ctx context.Context, challengeID string) error
}

type standings struct {
	participantRepo repository.ChallengeParticipantRepository
	redisClient     xredis.Client
}

func New(
	participantRepo repository.ChallengeParticipantRepository,
	redisClient xredis.Client,
) *standings {
	return &standings{participantRepo: participantRepo, redisClient: redisClient}
}

func (s *standings) Change(ctx context.Context, challengeID, userID string, delta int64) error {
	key := redisKeyStandings(challengeID)

	ok, err := s.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update.
	if !ok {
		return nil
	}

	if err := s.redisClient.ZIncrBy(ctx, key, delta, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (s *standings) Get(
	ctx context.Context, challengeID string, offset, limit int,
) ([]model.Standing, error) {
	key := redisKeyStandings(challengeID)

	ok, err := s.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	if !ok {
		if err := s.loadFromDB(ctx, challengeID); err != nil {
			return nil, err
		}
	}

	results, err := s.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	board := []model.Standing{}
	for i, z := range results {
		board = append(board, model.Standing{
			UserID: z.Member.(string),
			Score:  uint64(z.Score),
			Rank:   offset + i + 1,
		})
	}

	return board, nil
}

func (s *standings) Rank(ctx context.Context, challengeID, userID string) (uint64, error) {
	key := redisKeyStandings(challengeID)

	ok, err := s.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	if !ok {
		if err := s.loadFromDB(ctx, challengeID); err != nil {
			return 0, err
		}
	}

	rank, err := s.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (s *standings) Clear(ctx context.Context, challengeID string) error {
	return s.redisClient.Del(ctx, redisKeyStandings(challengeID))
}

func (s *standings) loadFromDB(ctx context.Context, challengeID string) error {
	participants, err := s.participantRepo.GetActive(ctx, challengeID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load participants from database: %v", err)
		return errorx.Unknown
	}

	key := redisKeyStandings(challengeID)
	for _, p := range participants {
		err := s.redisClient.ZAdd(ctx, key, redis.Z{Member: p.UserID, Score: float64(p.Score)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
