package domain

import (
	"testing"
	"time"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateAndPublishChallenge(t *testing.T) {
	s := newTestSuite()
	ctx := s.asTenant(testutil.Tenant1.ID)

	resp, err := s.challengeDomain.Create(ctx, &model.CreateChallengeRequest{
		Type:      "open",
		Category:  "scan_count",
		StartDate: time.Now().Format(time.RFC3339),
		EndDate:   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		Rules:     map[string]any{"points_per_scan": 2},
	})
	require.NoError(t, err)

	challenge, err := s.challengeRepo.GetByID(s.ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChallengeDraft, challenge.Status)

	_, err = s.challengeDomain.Publish(ctx, &model.PublishChallengeRequest{ChallengeID: resp.ID})
	require.NoError(t, err)

	challenge, err = s.challengeRepo.GetByID(s.ctx, resp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChallengeActive, challenge.Status)

	// Publishing twice is rejected.
	_, err = s.challengeDomain.Publish(ctx, &model.PublishChallengeRequest{ChallengeID: resp.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func TestCreateChallengeInvalidRules(t *testing.T) {
	s := newTestSuite()
	ctx := s.asTenant(testutil.Tenant1.ID)

	var errx errorx.Error

	_, err := s.challengeDomain.Create(ctx, &model.CreateChallengeRequest{
		Type:      "open",
		Category:  "scan_count",
		StartDate: time.Now().Format(time.RFC3339),
		EndDate:   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		Rules:     map[string]any{},
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = s.challengeDomain.Create(ctx, &model.CreateChallengeRequest{
		Type:      "open",
		Category:  "treasure_hunt",
		StartDate: time.Now().Format(time.RFC3339),
		EndDate:   time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func TestJoinChallenge(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	resp, err := s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ParticipantID)

	participant, err := s.participantRepo.Get(s.ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantActive, participant.Status)

	_, err = s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func TestJoinChallengeEntryFee(t *testing.T) {
	s := newTestSuite()

	challenge := &entity.Challenge{
		Base:      entity.Base{ID: "challenge-fee"},
		TenantID:  testutil.Tenant1.ID,
		Type:      entity.ChallengeOpen,
		Category:  "scan_count",
		Status:    entity.ChallengeActive,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
		EntryFee:  25,
		Rules:     entity.Map{"points_per_scan": 1},
	}
	require.NoError(t, s.challengeRepo.Create(s.ctx, challenge))

	var errx errorx.Error

	// Without points the fee cannot be covered, and no participant remains.
	_, err := s.challengeDomain.Join(s.asUser(testutil.User1.ID), &model.JoinChallengeRequest{ChallengeID: challenge.ID})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.InsufficientPoints, errx.Code)

	_, err = s.participantRepo.Get(s.ctx, challenge.ID, testutil.User1.ID)
	require.Error(t, err)

	_, err = s.ledger.Award(s.ctx, testutil.User1.ID, 100, "seed")
	require.NoError(t, err)

	_, err = s.challengeDomain.Join(s.asUser(testutil.User1.ID), &model.JoinChallengeRequest{ChallengeID: challenge.ID})
	require.NoError(t, err)

	balance, err := s.ledger.Balance(s.ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(75), balance)
}

func TestJoinChallengeCapacity(t *testing.T) {
	s := newTestSuite()

	challenge := &entity.Challenge{
		Base:            entity.Base{ID: "challenge-small"},
		TenantID:        testutil.Tenant1.ID,
		Type:            entity.ChallengeOpen,
		Category:        "scan_count",
		Status:          entity.ChallengeActive,
		StartDate:       time.Now().Add(-time.Hour),
		EndDate:         time.Now().Add(24 * time.Hour),
		MaxParticipants: 1,
		Rules:           entity.Map{"points_per_scan": 1},
	}
	require.NoError(t, s.challengeRepo.Create(s.ctx, challenge))

	_, err := s.challengeDomain.Join(s.asUser(testutil.User1.ID), &model.JoinChallengeRequest{ChallengeID: challenge.ID})
	require.NoError(t, err)

	_, err = s.challengeDomain.Join(s.asUser(testutil.User2.ID), &model.JoinChallengeRequest{ChallengeID: challenge.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func TestJoinChallengeGates(t *testing.T) {
	s := newTestSuite()

	draft := &entity.Challenge{
		Base:      entity.Base{ID: "challenge-draft"},
		TenantID:  testutil.Tenant1.ID,
		Type:      entity.ChallengeOpen,
		Category:  "scan_count",
		Status:    entity.ChallengeDraft,
		StartDate: time.Now().Add(-time.Hour),
		EndDate:   time.Now().Add(24 * time.Hour),
		Rules:     entity.Map{"points_per_scan": 1},
	}
	require.NoError(t, s.challengeRepo.Create(s.ctx, draft))

	over := &entity.Challenge{
		Base:      entity.Base{ID: "challenge-over"},
		TenantID:  testutil.Tenant1.ID,
		Type:      entity.ChallengeOpen,
		Category:  "scan_count",
		Status:    entity.ChallengeActive,
		StartDate: time.Now().Add(-48 * time.Hour),
		EndDate:   time.Now().Add(-time.Hour),
		Rules:     entity.Map{"points_per_scan": 1},
	}
	require.NoError(t, s.challengeRepo.Create(s.ctx, over))

	var errx errorx.Error
	ctx := s.asUser(testutil.User1.ID)

	_, err := s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-nope"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	_, err = s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-draft"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	_, err = s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: "challenge-over"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Expired, errx.Code)
}

func TestLeaveChallenge(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	_, err := s.challengeDomain.Join(ctx, &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	_, err = s.challengeDomain.Leave(ctx, &model.LeaveChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	participant, err := s.participantRepo.Get(s.ctx, testutil.Challenge1.ID, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ParticipantAbandoned, participant.Status)

	_, err = s.challengeDomain.Leave(ctx, &model.LeaveChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func TestAddScore(t *testing.T) {
	s := newTestSuite()
	tenantCtx := s.asTenant(testutil.Tenant1.ID)

	_, err := s.challengeDomain.Join(s.asUser(testutil.User1.ID), &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)

	resp, err := s.challengeDomain.AddScore(tenantCtx, &model.AddScoreRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
		Delta:       30,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(30), resp.Score)

	resp, err = s.challengeDomain.AddScore(tenantCtx, &model.AddScoreRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
		Delta:       12,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(42), resp.Score)

	var errx errorx.Error

	// Unknown participant.
	_, err = s.challengeDomain.AddScore(tenantCtx, &model.AddScoreRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User2.ID,
		Delta:       5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)

	// Only the owner tenant reports scores.
	_, err = s.challengeDomain.AddScore(s.asTenant(testutil.Tenant2.ID), &model.AddScoreRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User1.ID,
		Delta:       5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func TestCompleteChallengeRanking(t *testing.T) {
	s := newTestSuite()
	tenantCtx := s.asTenant(testutil.Tenant1.ID)

	users := []string{"user-a", "user-b", "user-c", "user-d"}
	scores := []uint64{50, 80, 80, 30}

	for _, userID := range users {
		err := s.userRepo.Create(s.ctx, &entity.User{
			Base:   entity.Base{ID: userID},
			Name:   userID,
			Status: entity.UserActive,
			Level:  1,
		})
		require.NoError(t, err)

		_, err = s.challengeDomain.Join(s.asUser(userID), &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
		require.NoError(t, err)

		// Joins a moment apart so the tie-break on join time is stable.
		time.Sleep(2 * time.Millisecond)
	}

	for i, userID := range users {
		if scores[i] == 0 {
			continue
		}

		_, err := s.challengeDomain.AddScore(tenantCtx, &model.AddScoreRequest{
			ChallengeID: testutil.Challenge1.ID,
			UserID:      userID,
			Delta:       scores[i],
		})
		require.NoError(t, err)
	}

	resp, err := s.challengeDomain.Complete(tenantCtx, &model.CompleteChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	require.NoError(t, err)
	require.Len(t, resp.Participants, 4)

	// Equal scores rank by earliest join: user-b before user-c.
	require.Equal(t, "user-b", resp.Participants[0].UserID)
	require.Equal(t, 1, resp.Participants[0].Ranking)
	require.Equal(t, "user-c", resp.Participants[1].UserID)
	require.Equal(t, 2, resp.Participants[1].Ranking)
	require.Equal(t, "user-a", resp.Participants[2].UserID)
	require.Equal(t, 3, resp.Participants[2].Ranking)
	require.Equal(t, "user-d", resp.Participants[3].UserID)
	require.Equal(t, 4, resp.Participants[3].Ranking)

	challenge, err := s.challengeRepo.GetByID(s.ctx, testutil.Challenge1.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ChallengeCompleted, challenge.Status)

	for _, userID := range users {
		participant, err := s.participantRepo.Get(s.ctx, testutil.Challenge1.ID, userID)
		require.NoError(t, err)
		require.Equal(t, entity.ParticipantCompleted, participant.Status)
		require.NotZero(t, participant.Ranking)
	}

	// Completing twice is rejected.
	_, err = s.challengeDomain.Complete(tenantCtx, &model.CompleteChallengeRequest{ChallengeID: testutil.Challenge1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)

	require.Len(t, s.publisher.Published("challenges"), 1)
}

func TestStandingsEndpoints(t *testing.T) {
	s := newTestSuite()
	tenantCtx := s.asTenant(testutil.Tenant1.ID)

	for _, userID := range []string{testutil.User1.ID, testutil.User2.ID} {
		_, err := s.challengeDomain.Join(s.asUser(userID), &model.JoinChallengeRequest{ChallengeID: testutil.Challenge1.ID})
		require.NoError(t, err)
	}

	_, err := s.challengeDomain.AddScore(tenantCtx, &model.AddScoreRequest{
		ChallengeID: testutil.Challenge1.ID,
		UserID:      testutil.User2.ID,
		Delta:       40,
	})
	require.NoError(t, err)

	standings, err := s.challengeDomain.GetStandings(s.asUser(testutil.User1.ID), &model.GetStandingsRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Len(t, standings.Standings, 2)
	require.Equal(t, testutil.User2.ID, standings.Standings[0].UserID)
	require.Equal(t, uint64(40), standings.Standings[0].Score)

	rank, err := s.challengeDomain.GetMyRank(s.asUser(testutil.User2.ID), &model.GetMyRankRequest{
		ChallengeID: testutil.Challenge1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank.Rank)
}
