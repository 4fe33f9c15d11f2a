package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/loyaltap/backend/internal/common"
	"github.com/loyaltap/backend/internal/domain/event"
	"github.com/loyaltap/backend/internal/domain/ledger"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/crypto"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/pubsub"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	claimCodeLength   = 8
	claimCodeAttempts = 10
)

type TokenDomain interface {
	Create(ctx context.Context, req *model.CreateTokenRequest) (*model.CreateTokenResponse, error)
	GetList(ctx context.Context, req *model.GetTokensRequest) (*model.GetTokensResponse, error)
	Claim(ctx context.Context, req *model.ClaimTokenRequest) (*model.ClaimTokenResponse, error)
	Redeem(ctx context.Context, req *model.RedeemTokenRequest) (*model.RedeemTokenResponse, error)
	GetMyClaims(ctx context.Context, req *model.GetMyClaimsRequest) (*model.GetMyClaimsResponse, error)
}

type tokenDomain struct {
	tokenRepo      repository.TokenRepository
	tokenClaimRepo repository.TokenClaimRepository
	ledger         ledger.Ledger
	tenantVerifier *common.TenantVerifier
	publisher      pubsub.Publisher
}

func NewTokenDomain(
	tokenRepo repository.TokenRepository,
	tokenClaimRepo repository.TokenClaimRepository,
	ledger ledger.Ledger,
	tenantVerifier *common.TenantVerifier,
	publisher pubsub.Publisher,
) *tokenDomain {
	return &tokenDomain{
		tokenRepo:      tokenRepo,
		tokenClaimRepo: tokenClaimRepo,
		ledger:         ledger,
		tenantVerifier: tenantVerifier,
		publisher:      publisher,
	}
}

func (d *tokenDomain) Create(
	ctx context.Context, req *model.CreateTokenRequest,
) (*model.CreateTokenResponse, error) {
	tenant, err := d.tenantVerifier.Verify(ctx)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.Name == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty name")
	}

	if req.QuantityAvailable <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid quantity %d", req.QuantityAvailable)
	}

	expiredAt, err := time.Parse(time.RFC3339, req.ExpiredAt)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid expiration time")
	}

	token := &entity.Token{
		Base:              entity.Base{ID: uuid.NewString()},
		TenantID:          tenant.ID,
		Name:              req.Name,
		RequiredPoints:    req.RequiredPoints,
		QuantityAvailable: req.QuantityAvailable,
		ExpiredAt:         expiredAt,
		Active:            true,
	}

	if err := d.tokenRepo.Create(ctx, token); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTokenResponse{ID: token.ID}, nil
}

func (d *tokenDomain) GetList(
	ctx context.Context, req *model.GetTokensRequest,
) (*model.GetTokensResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	tokens, err := d.tokenRepo.GetList(ctx, req.TenantID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get token list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.Token{}
	for i := range tokens {
		result = append(result, model.ConvertToken(&tokens[i]))
	}

	return &model.GetTokensResponse{Tokens: result}, nil
}

func (d *tokenDomain) Claim(
	ctx context.Context, req *model.ClaimTokenRequest,
) (*model.ClaimTokenResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	token, err := d.tokenRepo.GetByID(ctx, req.TokenID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found token")
		}

		xcontext.Logger(ctx).Errorf("Cannot get token %s: %v", req.TokenID, err)
		return nil, errorx.Unknown
	}

	if !token.Active {
		return nil, errorx.New(errorx.Unavailable, "Token is not active")
	}

	if !token.ExpiredAt.IsZero() && time.Now().After(token.ExpiredAt) {
		return nil, errorx.New(errorx.Expired, "Token is expired")
	}

	if token.QuantityClaimed >= token.QuantityAvailable {
		return nil, errorx.New(errorx.SoldOut, "Token is sold out")
	}

	_, err = d.tokenClaimRepo.Get(ctx, userID, req.TokenID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get claim: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "You already claimed this token")
	}

	balance, err := d.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}

	if balance < token.RequiredPoints {
		return nil, errorx.New(errorx.InsufficientPoints, "Not enough points")
	}

	code, err := d.generateClaimCode(ctx)
	if err != nil {
		return nil, err
	}

	claim := &entity.TokenClaim{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      userID,
		TokenID:     token.ID,
		TenantID:    token.TenantID,
		Code:        code,
		PointsSpent: token.RequiredPoints,
		Status:      entity.ClaimClaimed,
		ExpiredAt:   token.ExpiredAt,
	}

	originCtx := ctx
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.tokenClaimRepo.Create(ctx, claim); err != nil {
		xcontext.WithRollbackDBTransaction(ctx)

		// The unique (user, token) index rejects the second of two racing
		// claims after both passed the pre-check.
		if _, getErr := d.tokenClaimRepo.Get(originCtx, userID, token.ID); getErr == nil {
			return nil, errorx.New(errorx.AlreadyExists, "You already claimed this token")
		}

		xcontext.Logger(ctx).Errorf("Cannot create claim: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.tokenRepo.IncreaseClaimed(ctx, token.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.SoldOut, "Token is sold out")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase claimed counter: %v", err)
		return nil, errorx.Unknown
	}

	var remaining uint64
	if token.RequiredPoints > 0 {
		remaining, err = d.ledger.Spend(ctx, userID, token.RequiredPoints)
		if err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	event.Emit(ctx, d.publisher, event.ClaimTopic, token.ID, event.TokenClaimed{
		ClaimID:     claim.ID,
		UserID:      userID,
		TokenID:     token.ID,
		TenantID:    token.TenantID,
		PointsSpent: claim.PointsSpent,
	})

	if token.RequiredPoints > 0 {
		event.Emit(ctx, d.publisher, event.PointsTopic, userID, event.PointsChanged{
			UserID:  userID,
			Delta:   -int64(claim.PointsSpent),
			Balance: remaining,
			Reason:  "claim",
		})
	}

	return &model.ClaimTokenResponse{ClaimID: claim.ID, Code: claim.Code}, nil
}

func (d *tokenDomain) Redeem(
	ctx context.Context, req *model.RedeemTokenRequest,
) (*model.RedeemTokenResponse, error) {
	claim, err := d.tokenClaimRepo.GetByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found claim")
		}

		xcontext.Logger(ctx).Errorf("Cannot get claim by code: %v", err)
		return nil, errorx.Unknown
	}

	if claim.Status == entity.ClaimRedeemed {
		return nil, errorx.New(errorx.AlreadyExists, "Claim is already redeemed")
	}

	if xcontext.RequestTenantID(ctx) != "" {
		if _, err := d.tenantVerifier.VerifyOwner(ctx, claim.TenantID); err != nil {
			xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}
	}

	now := time.Now()
	if err := d.tokenClaimRepo.MarkRedeemed(ctx, claim.ID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Raced with another redemption of the same code.
			return nil, errorx.New(errorx.AlreadyExists, "Claim is already redeemed")
		}

		xcontext.Logger(ctx).Errorf("Cannot mark claim redeemed: %v", err)
		return nil, errorx.Unknown
	}

	claim.Status = entity.ClaimRedeemed
	claim.RedeemedAt.Valid = true
	claim.RedeemedAt.Time = now

	return &model.RedeemTokenResponse{Claim: model.ConvertTokenClaim(claim)}, nil
}

func (d *tokenDomain) GetMyClaims(
	ctx context.Context, req *model.GetMyClaimsRequest,
) (*model.GetMyClaimsResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	claims, err := d.tokenClaimRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get claim list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.TokenClaim{}
	for i := range claims {
		result = append(result, model.ConvertTokenClaim(&claims[i]))
	}

	return &model.GetMyClaimsResponse{Claims: result}, nil
}

func (d *tokenDomain) generateClaimCode(ctx context.Context) (string, error) {
	for i := 0; i < claimCodeAttempts; i++ {
		code := crypto.GenerateClaimCode(claimCodeLength)

		_, err := d.tokenClaimRepo.GetByCode(ctx, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code, nil
		}

		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot check claim code: %v", err)
			return "", errorx.Unknown
		}
	}

	xcontext.Logger(ctx).Errorf("Cannot generate an unused claim code")
	return "", errorx.Unknown
}
