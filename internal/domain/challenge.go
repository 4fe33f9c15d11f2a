package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/loyaltap/backend/internal/common"
	"github.com/loyaltap/backend/internal/domain/challengerule"
	"github.com/loyaltap/backend/internal/domain/event"
	"github.com/loyaltap/backend/internal/domain/ledger"
	"github.com/loyaltap/backend/internal/domain/statistic"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/enum"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/pubsub"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeDomain interface {
	Create(ctx context.Context, req *model.CreateChallengeRequest) (*model.CreateChallengeResponse, error)
	Publish(ctx context.Context, req *model.PublishChallengeRequest) (*model.PublishChallengeResponse, error)
	Join(ctx context.Context, req *model.JoinChallengeRequest) (*model.JoinChallengeResponse, error)
	Leave(ctx context.Context, req *model.LeaveChallengeRequest) (*model.LeaveChallengeResponse, error)
	AddScore(ctx context.Context, req *model.AddScoreRequest) (*model.AddScoreResponse, error)
	Complete(ctx context.Context, req *model.CompleteChallengeRequest) (*model.CompleteChallengeResponse, error)
	GetStandings(ctx context.Context, req *model.GetStandingsRequest) (*model.GetStandingsResponse, error)
	GetMyRank(ctx context.Context, req *model.GetMyRankRequest) (*model.GetMyRankResponse, error)
}

type challengeDomain struct {
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ChallengeParticipantRepository
	ledger          ledger.Ledger
	standings       statistic.Standings
	tenantVerifier  *common.TenantVerifier
	publisher       pubsub.Publisher
}

func NewChallengeDomain(
	challengeRepo repository.ChallengeRepository,
	participantRepo repository.ChallengeParticipantRepository,
	ledger ledger.Ledger,
	standings statistic.Standings,
	tenantVerifier *common.TenantVerifier,
	publisher pubsub.Publisher,
) *challengeDomain {
	return &challengeDomain{
		challengeRepo:   challengeRepo,
		participantRepo: participantRepo,
		ledger:          ledger,
		standings:       standings,
		tenantVerifier:  tenantVerifier,
		publisher:       publisher,
	}
}

func (d *challengeDomain) Create(
	ctx context.Context, req *model.CreateChallengeRequest,
) (*model.CreateChallengeResponse, error) {
	tenant, err := d.tenantVerifier.Verify(ctx)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	challengeType, err := enum.ToEnum[entity.ChallengeType](req.Type)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid challenge type %s", req.Type)
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid start date")
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid end date")
	}

	if !endDate.After(startDate) {
		return nil, errorx.New(errorx.BadRequest, "End date must come after start date")
	}

	if req.MaxParticipants < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid max participants %d", req.MaxParticipants)
	}

	maxRules := xcontext.Configs(ctx).Challenge.MaxRules
	if maxRules > 0 && len(req.Rules) > maxRules {
		return nil, errorx.New(errorx.BadRequest, "Too many rule fields")
	}

	rule, err := challengerule.New(ctx, req.Category, req.Rules)
	if err != nil {
		return nil, err
	}

	challenge := &entity.Challenge{
		Base:            entity.Base{ID: uuid.NewString()},
		TenantID:        tenant.ID,
		Type:            challengeType,
		Category:        req.Category,
		Status:          entity.ChallengeDraft,
		StartDate:       startDate,
		EndDate:         endDate,
		MaxParticipants: req.MaxParticipants,
		EntryFee:        req.EntryFee,
		RadiusMeters:    req.RadiusMeters,
		Rules:           rule.Encode(),
	}

	if err := d.challengeRepo.Create(ctx, challenge); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateChallengeResponse{ID: challenge.ID}, nil
}

func (d *challengeDomain) Publish(
	ctx context.Context, req *model.PublishChallengeRequest,
) (*model.PublishChallengeResponse, error) {
	challenge, err := d.loadChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if _, err := d.tenantVerifier.VerifyOwner(ctx, challenge.TenantID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	err = d.challengeRepo.UpdateStatus(ctx, challenge.ID, entity.ChallengeDraft, entity.ChallengeActive)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Challenge is not a draft")
		}

		xcontext.Logger(ctx).Errorf("Cannot publish challenge: %v", err)
		return nil, errorx.Unknown
	}

	return &model.PublishChallengeResponse{}, nil
}

func (d *challengeDomain) Join(
	ctx context.Context, req *model.JoinChallengeRequest,
) (*model.JoinChallengeResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	challenge, err := d.loadChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not active")
	}

	if challenge.Type != entity.ChallengeOpen {
		return nil, errorx.New(errorx.PermissionDenied, "Challenge is not open to join")
	}

	if time.Now().After(challenge.EndDate) {
		return nil, errorx.New(errorx.Expired, "Challenge is over")
	}

	_, err = d.participantRepo.Get(ctx, challenge.ID, userID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get participant: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "You already joined this challenge")
	}

	if challenge.MaxParticipants > 0 {
		count, err := d.participantRepo.Count(ctx, challenge.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot count participants: %v", err)
			return nil, errorx.Unknown
		}

		if count >= int64(challenge.MaxParticipants) {
			return nil, errorx.New(errorx.Unavailable, "Challenge is full")
		}
	}

	participant := &entity.ChallengeParticipant{
		Base:        entity.Base{ID: uuid.NewString()},
		ChallengeID: challenge.ID,
		UserID:      userID,
		Status:      entity.ParticipantActive,
	}

	originCtx := ctx
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	var balance uint64
	if challenge.EntryFee > 0 {
		balance, err = d.ledger.Spend(ctx, userID, challenge.EntryFee)
		if err != nil {
			return nil, err
		}
	}

	if err := d.participantRepo.Create(ctx, participant); err != nil {
		xcontext.WithRollbackDBTransaction(ctx)

		// The unique (challenge, user) index rejects the second of two
		// racing joins after both passed the pre-check.
		if _, getErr := d.participantRepo.Get(originCtx, challenge.ID, userID); getErr == nil {
			return nil, errorx.New(errorx.AlreadyExists, "You already joined this challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot create participant: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.standings.Change(ctx, challenge.ID, userID, 0); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot seed standings: %v", err)
	}

	if challenge.EntryFee > 0 {
		event.Emit(ctx, d.publisher, event.PointsTopic, userID, event.PointsChanged{
			UserID:  userID,
			Delta:   -int64(challenge.EntryFee),
			Balance: balance,
			Reason:  "challenge_entry",
		})
	}

	return &model.JoinChallengeResponse{ParticipantID: participant.ID}, nil
}

func (d *challengeDomain) Leave(
	ctx context.Context, req *model.LeaveChallengeRequest,
) (*model.LeaveChallengeResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	err := d.participantRepo.UpdateStatus(
		ctx, req.ChallengeID, userID, entity.ParticipantActive, entity.ParticipantAbandoned)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "You are not an active participant")
		}

		xcontext.Logger(ctx).Errorf("Cannot leave challenge: %v", err)
		return nil, errorx.Unknown
	}

	// Drop the live standings so they are rebuilt without this user. The
	// entry fee is not refunded.
	if err := d.standings.Clear(ctx, req.ChallengeID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot clear standings: %v", err)
	}

	return &model.LeaveChallengeResponse{}, nil
}

func (d *challengeDomain) AddScore(
	ctx context.Context, req *model.AddScoreRequest,
) (*model.AddScoreResponse, error) {
	challenge, err := d.loadChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if _, err := d.tenantVerifier.VerifyOwner(ctx, challenge.TenantID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not active")
	}

	if req.Delta == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a zero delta")
	}

	err = d.participantRepo.IncreaseScore(ctx, challenge.ID, req.UserID, req.Delta)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found active participant")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase score: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.standings.Change(ctx, challenge.ID, req.UserID, int64(req.Delta)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update standings: %v", err)
	}

	participant, err := d.participantRepo.Get(ctx, challenge.ID, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload participant: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddScoreResponse{Score: participant.Score}, nil
}

func (d *challengeDomain) Complete(
	ctx context.Context, req *model.CompleteChallengeRequest,
) (*model.CompleteChallengeResponse, error) {
	challenge, err := d.loadChallenge(ctx, req.ChallengeID)
	if err != nil {
		return nil, err
	}

	if _, err := d.tenantVerifier.VerifyOwner(ctx, challenge.TenantID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if challenge.Status != entity.ChallengeActive {
		return nil, errorx.New(errorx.Unavailable, "Challenge is not active")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	participants, err := d.participantRepo.GetActiveOrdered(ctx, challenge.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get ordered participants: %v", err)
		return nil, errorx.Unknown
	}

	for i := range participants {
		if err := d.participantRepo.AssignRanking(ctx, participants[i].ID, i+1); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot assign ranking: %v", err)
			return nil, errorx.Unknown
		}

		participants[i].Ranking = i + 1
		participants[i].Status = entity.ParticipantCompleted
	}

	err = d.challengeRepo.UpdateStatus(ctx, challenge.ID, entity.ChallengeActive, entity.ChallengeCompleted)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unavailable, "Challenge is already completed")
		}

		xcontext.Logger(ctx).Errorf("Cannot complete challenge: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.standings.Clear(ctx, challenge.ID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot clear standings: %v", err)
	}

	event.Emit(ctx, d.publisher, event.ChallengeTopic, challenge.ID, event.ChallengeCompleted{
		ChallengeID:  challenge.ID,
		TenantID:     challenge.TenantID,
		Participants: len(participants),
	})

	result := []model.ChallengeParticipant{}
	for i := range participants {
		result = append(result, model.ConvertChallengeParticipant(&participants[i]))
	}

	return &model.CompleteChallengeResponse{Participants: result}, nil
}

func (d *challengeDomain) GetStandings(
	ctx context.Context, req *model.GetStandingsRequest,
) (*model.GetStandingsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	if _, err := d.loadChallenge(ctx, req.ChallengeID); err != nil {
		return nil, err
	}

	standings, err := d.standings.Get(ctx, req.ChallengeID, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetStandingsResponse{Standings: standings}, nil
}

func (d *challengeDomain) GetMyRank(
	ctx context.Context, req *model.GetMyRankRequest,
) (*model.GetMyRankResponse, error) {
	if _, err := d.loadChallenge(ctx, req.ChallengeID); err != nil {
		return nil, err
	}

	rank, err := d.standings.Rank(ctx, req.ChallengeID, xcontext.RequestUserID(ctx))
	if err != nil {
		return nil, err
	}

	return &model.GetMyRankResponse{Rank: rank}, nil
}

func (d *challengeDomain) loadChallenge(ctx context.Context, id string) (*entity.Challenge, error) {
	challenge, err := d.challengeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found challenge")
		}

		xcontext.Logger(ctx).Errorf("Cannot get challenge %s: %v", id, err)
		return nil, errorx.Unknown
	}

	return challenge, nil
}
