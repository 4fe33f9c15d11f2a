package repository

import (
	"context"
	"errors"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TokenRepository interface {
	Create(ctx context.Context, e *entity.Token) error
	GetByID(ctx context.Context, id string) (*entity.Token, error)
	GetList(ctx context.Context, tenantID string, offset, limit int) ([]entity.Token, error)
	IncreaseClaimed(ctx context.Context, tokenID string) error
}

type tokenRepository struct{}

func NewTokenRepository() *tokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(ctx context.Context, e *entity.Token) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *tokenRepository) GetByID(ctx context.Context, id string) (*entity.Token, error) {
	var result entity.Token
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *tokenRepository) GetList(
	ctx context.Context, tenantID string, offset, limit int,
) ([]entity.Token, error) {
	tx := xcontext.DB(ctx).Model(&entity.Token{}).Offset(offset).Limit(limit)
	if tenantID != "" {
		tx = tx.Where("tenant_id=?", tenantID)
	}

	var result []entity.Token
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// IncreaseClaimed bumps the claimed counter only while stock remains. The
// availability guard in the WHERE clause is what holds the claimed<=available
// bound under concurrent claims; a zero-row result means sold out.
func (r *tokenRepository) IncreaseClaimed(ctx context.Context, tokenID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Token{}).
		Where("id=? AND quantity_claimed < quantity_available", tokenID).
		Update("quantity_claimed", gorm.Expr("quantity_claimed+1"))

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
