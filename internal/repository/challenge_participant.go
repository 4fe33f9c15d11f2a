package repository

import (
	"context"
	"errors"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ChallengeParticipantRepository interface {
	Create(ctx context.Context, e *entity.ChallengeParticipant) error
	Get(ctx context.Context, challengeID, userID string) (*entity.ChallengeParticipant, error)
	Count(ctx context.Context, challengeID string) (int64, error)
	IncreaseScore(ctx context.Context, challengeID, userID string, delta uint64) error
	UpdateStatus(ctx context.Context, challengeID, userID string, from, to entity.ParticipantStatus) error
	GetActiveOrdered(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	GetActive(ctx context.Context, challengeID string) ([]entity.ChallengeParticipant, error)
	AssignRanking(ctx context.Context, id string, ranking int) error
}

type challengeParticipantRepository struct{}

func NewChallengeParticipantRepository() *challengeParticipantRepository {
	return &challengeParticipantRepository{}
}

func (r *challengeParticipantRepository) Create(ctx context.Context, e *entity.ChallengeParticipant) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *challengeParticipantRepository) Get(
	ctx context.Context, challengeID, userID string,
) (*entity.ChallengeParticipant, error) {
	var result entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=? AND user_id=?", challengeID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *challengeParticipantRepository) Count(ctx context.Context, challengeID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=?", challengeID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

// IncreaseScore accumulates score for an active participant only.
func (r *challengeParticipantRepository) IncreaseScore(
	ctx context.Context, challengeID, userID string, delta uint64,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=? AND status=?", challengeID, userID, entity.ParticipantActive).
		Update("score", gorm.Expr("score+?", delta))

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

func (r *challengeParticipantRepository) UpdateStatus(
	ctx context.Context, challengeID, userID string, from, to entity.ParticipantStatus,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("challenge_id=? AND user_id=? AND status=?", challengeID, userID, from).
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

// GetActiveOrdered returns active participants in final-ranking order:
// highest score first, earliest join breaking ties, id as the last resort for
// a total order.
func (r *challengeParticipantRepository) GetActiveOrdered(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=? AND status=?", challengeID, entity.ParticipantActive).
		Order("score DESC, created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *challengeParticipantRepository) GetActive(
	ctx context.Context, challengeID string,
) ([]entity.ChallengeParticipant, error) {
	var result []entity.ChallengeParticipant
	err := xcontext.DB(ctx).
		Where("challenge_id=? AND status=?", challengeID, entity.ParticipantActive).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// AssignRanking stamps a final rank and completes the participant in one
// guarded update; a participant already ranked is left untouched.
func (r *challengeParticipantRepository) AssignRanking(ctx context.Context, id string, ranking int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.ChallengeParticipant{}).
		Where("id=? AND ranking=0", id).
		Updates(map[string]any{
			"ranking": ranking,
			"status":  entity.ParticipantCompleted,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
