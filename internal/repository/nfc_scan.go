package repository

import (
	"context"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
)

type NfcScanRepository interface {
	Create(ctx context.Context, e *entity.NfcScan) error
	GetListByUserID(ctx context.Context, userID string, offset, limit int) ([]entity.NfcScan, error)
	CountByTagID(ctx context.Context, tagID string) (int64, error)
}

type nfcScanRepository struct{}

func NewNfcScanRepository() *nfcScanRepository {
	return &nfcScanRepository{}
}

func (r *nfcScanRepository) Create(ctx context.Context, e *entity.NfcScan) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *nfcScanRepository) GetListByUserID(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.NfcScan, error) {
	var result []entity.NfcScan
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nfcScanRepository) CountByTagID(ctx context.Context, tagID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).
		Model(&entity.NfcScan{}).
		Where("tag_id=?", tagID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}
