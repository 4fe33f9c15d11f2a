package repository

import (
	"context"
	"errors"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, e *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	IncreasePoints(ctx context.Context, userID string, points uint64) error
	DecreasePoints(ctx context.Context, userID string, points uint64) error
	RaiseLevel(ctx context.Context, userID string, level int) error
}

type userRepository struct{}

func NewUserRepository() *userRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, e *entity.User) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var result entity.User
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userRepository) IncreasePoints(ctx context.Context, userID string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=?", userID).
		Update("points", gorm.Expr("points+?", points))

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

// DecreasePoints subtracts points only when the balance covers them. The
// balance guard lives in the WHERE clause so concurrent spends cannot drive
// it negative; a zero-row result is reported as ErrRecordNotFound.
func (r *userRepository) DecreasePoints(ctx context.Context, userID string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND points >= ?", userID, points).
		Update("points", gorm.Expr("points-?", points))

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

// RaiseLevel only ever moves a level up. A no-op when the stored level is
// already at least the given one.
func (r *userRepository) RaiseLevel(ctx context.Context, userID string, level int) error {
	return xcontext.DB(ctx).
		Model(&entity.User{}).
		Where("id=? AND level < ?", userID, level).
		Update("level", level).Error
}
