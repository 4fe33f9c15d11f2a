package repository

import (
	"context"
	"errors"
	"time"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TokenClaimRepository interface {
	Create(ctx context.Context, e *entity.TokenClaim) error
	GetByID(ctx context.Context, id string) (*entity.TokenClaim, error)
	Get(ctx context.Context, userID, tokenID string) (*entity.TokenClaim, error)
	GetByCode(ctx context.Context, code string) (*entity.TokenClaim, error)
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.TokenClaim, error)
	MarkRedeemed(ctx context.Context, id string, at time.Time) error
}

type tokenClaimRepository struct{}

func NewTokenClaimRepository() *tokenClaimRepository {
	return &tokenClaimRepository{}
}

func (r *tokenClaimRepository) Create(ctx context.Context, e *entity.TokenClaim) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *tokenClaimRepository) GetByID(ctx context.Context, id string) (*entity.TokenClaim, error) {
	var result entity.TokenClaim
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tokenClaimRepository) Get(ctx context.Context, userID, tokenID string) (*entity.TokenClaim, error) {
	var result entity.TokenClaim
	err := xcontext.DB(ctx).
		Where("user_id=? AND token_id=?", userID, tokenID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tokenClaimRepository) GetByCode(ctx context.Context, code string) (*entity.TokenClaim, error) {
	var result entity.TokenClaim
	if err := xcontext.DB(ctx).Take(&result, "code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tokenClaimRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.TokenClaim, error) {
	var result []entity.TokenClaim
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkRedeemed transitions a claim to redeemed exactly once. The status guard
// makes a second redemption a zero-row update, reported as ErrRecordNotFound.
func (r *tokenClaimRepository) MarkRedeemed(ctx context.Context, id string, at time.Time) error {
	tx := xcontext.DB(ctx).
		Model(&entity.TokenClaim{}).
		Where("id=? AND status=?", id, entity.ClaimClaimed).
		Updates(map[string]any{
			"status":      entity.ClaimRedeemed,
			"redeemed_at": at,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
