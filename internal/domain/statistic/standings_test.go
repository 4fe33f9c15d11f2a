package statistic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func insertParticipant(t *testing.T, ctx context.Context, userID string, score uint64) {
	t.Helper()

	err := repository.NewChallengeParticipantRepository().Create(ctx, &entity.ChallengeParticipant{
		Base:        entity.Base{ID: uuid.NewString()},
		ChallengeID: testutil.Challenge1.ID,
		UserID:      userID,
		Score:       score,
		Status:      entity.ParticipantActive,
	})
	require.NoError(t, err)
}

func TestStandingsBackfillFromDatabase(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertFixtures(ctx)

	insertParticipant(t, ctx, "user1", 50)
	insertParticipant(t, ctx, "user2", 80)

	standings := New(repository.NewChallengeParticipantRepository(), testutil.NewInMemoryRedis())

	board, err := standings.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)
	require.Equal(t, "user2", board[0].UserID)
	require.Equal(t, uint64(80), board[0].Score)
	require.Equal(t, 1, board[0].Rank)
	require.Equal(t, "user1", board[1].UserID)
	require.Equal(t, 2, board[1].Rank)
}

func TestStandingsChangeAfterBackfill(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertFixtures(ctx)

	insertParticipant(t, ctx, "user1", 50)
	insertParticipant(t, ctx, "user2", 80)

	standings := New(repository.NewChallengeParticipantRepository(), testutil.NewInMemoryRedis())

	_, err := standings.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)

	require.NoError(t, standings.Change(ctx, testutil.Challenge1.ID, "user1", 40))

	board, err := standings.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)
	require.Equal(t, "user1", board[0].UserID)
	require.Equal(t, uint64(90), board[0].Score)
}

func TestStandingsChangeWithoutKeyIsNoop(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertFixtures(ctx)

	redisClient := testutil.NewInMemoryRedis()
	standings := New(repository.NewChallengeParticipantRepository(), redisClient)

	require.NoError(t, standings.Change(ctx, testutil.Challenge1.ID, "user1", 40))

	ok, err := redisClient.Exist(ctx, redisKeyStandings(testutil.Challenge1.ID))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStandingsRank(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertFixtures(ctx)

	insertParticipant(t, ctx, "user1", 50)
	insertParticipant(t, ctx, "user2", 80)

	standings := New(repository.NewChallengeParticipantRepository(), testutil.NewInMemoryRedis())

	rank, err := standings.Rank(ctx, testutil.Challenge1.ID, "user1")
	require.NoError(t, err)
	require.Equal(t, uint64(2), rank)

	rank, err = standings.Rank(ctx, testutil.Challenge1.ID, "user2")
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank)

	// A user outside the standings has no rank.
	rank, err = standings.Rank(ctx, testutil.Challenge1.ID, "nobody")
	require.NoError(t, err)
	require.Equal(t, uint64(0), rank)
}

func TestStandingsClear(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertFixtures(ctx)

	insertParticipant(t, ctx, "user1", 50)

	redisClient := testutil.NewInMemoryRedis()
	standings := New(repository.NewChallengeParticipantRepository(), redisClient)

	_, err := standings.Get(ctx, testutil.Challenge1.ID, 0, 10)
	require.NoError(t, err)

	require.NoError(t, standings.Clear(ctx, testutil.Challenge1.ID))

	ok, err := redisClient.Exist(ctx, redisKeyStandings(testutil.Challenge1.ID))
	require.NoError(t, err)
	require.False(t, ok)
}
