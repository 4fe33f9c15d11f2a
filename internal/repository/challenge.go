package repository

import (
	"context"
	"errors"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeRepository interface {
	Create(ctx context.Context, e *entity.Challenge) error
	GetByID(ctx context.Context, id string) (*entity.Challenge, error)
	GetListByTenantID(ctx context.Context, tenantID string, offset, limit int) ([]entity.Challenge, error)
	UpdateStatus(ctx context.Context, id string, from, to entity.ChallengeStatus) error
}

type challengeRepository struct{}

func NewChallengeRepository() *challengeRepository {
	return &challengeRepository{}
}

func (r *challengeRepository) Create(ctx context.Context, e *entity.Challenge) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *challengeRepository) GetByID(ctx context.Context, id string) (*entity.Challenge, error) {
	var result entity.Challenge
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeRepository) GetListByTenantID(
	ctx context.Context, tenantID string, offset, limit int,
) ([]entity.Challenge, error) {
	var result []entity.Challenge
	err := xcontext.DB(ctx).
		Where("tenant_id=?", tenantID).
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus performs a guarded state transition. A zero-row result means
// the challenge was not in the expected source state.
func (r *challengeRepository) UpdateStatus(
	ctx context.Context, id string, from, to entity.ChallengeStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Challenge{}).
		Where("id=? AND status=?", id, from).
		Update("status", to)

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
