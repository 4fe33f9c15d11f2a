package ledger

import (
	"context"
	"errors"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Ledger is the single writer of user points and level. Every point mutation
// in the system goes through it; callers wanting the mutation inside a wider
// transaction open one on the context before calling.
type Ledger interface {
	Award(ctx context.Context, userID string, points uint64, reason string) (uint64, error)
	Spend(ctx context.Context, userID string, points uint64) (uint64, error)
	Balance(ctx context.Context, userID string) (uint64, error)
}

type ledger struct {
	userRepo repository.UserRepository
}

func New(userRepo repository.UserRepository) *ledger {
	return &ledger{userRepo: userRepo}
}

func (l *ledger) Award(ctx context.Context, userID string, points uint64, reason string) (uint64, error) {
	if points == 0 {
		return 0, errorx.New(errorx.BadRequest, "Not allow a zero award")
	}

	if err := l.userRepo.IncreasePoints(ctx, userID, points); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase points of %s: %v", userID, err)
		return 0, errorx.Unknown
	}

	return l.reconcileLevel(ctx, userID)
}

func (l *ledger) Spend(ctx context.Context, userID string, points uint64) (uint64, error) {
	if points == 0 {
		return 0, errorx.New(errorx.BadRequest, "Not allow a zero spend")
	}

	// Load first to tell a missing user apart from an uncovered balance.
	if _, err := l.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return 0, errorx.Unknown
	}

	if err := l.userRepo.DecreasePoints(ctx, userID, points); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The guarded update affected no row: another spend won the
			// balance first, or it never covered the amount.
			return 0, errorx.New(errorx.InsufficientPoints, "Not enough points")
		}

		xcontext.Logger(ctx).Errorf("Cannot decrease points of %s: %v", userID, err)
		return 0, errorx.Unknown
	}

	// The level is sticky: spending points never lowers it.
	return l.Balance(ctx, userID)
}

func (l *ledger) Balance(ctx context.Context, userID string) (uint64, error) {
	user, err := l.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user %s: %v", userID, err)
		return 0, errorx.Unknown
	}

	return user.Points, nil
}

func (l *ledger) reconcileLevel(ctx context.Context, userID string) (uint64, error) {
	user, err := l.userRepo.GetByID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reload user %s: %v", userID, err)
		return 0, errorx.Unknown
	}

	level := entity.LevelForPoints(user.Points)
	if level > user.Level {
		if err := l.userRepo.RaiseLevel(ctx, userID, level); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot raise level of %s: %v", userID, err)
			return 0, errorx.Unknown
		}
	}

	return user.Points, nil
}
