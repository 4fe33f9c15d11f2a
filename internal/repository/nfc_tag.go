package repository

import (
	"context"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
)

type NfcTagRepository interface {
	Create(ctx context.Context, e *entity.NfcTag) error
	GetByID(ctx context.Context, id string) (*entity.NfcTag, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.NfcTag, error)
	GetListByTenantID(ctx context.Context, tenantID string, offset, limit int) ([]entity.NfcTag, error)
	UpdateByID(ctx context.Context, id string, e entity.NfcTag) error
	SetActive(ctx context.Context, id string, active bool) error
}

type nfcTagRepository struct{}

func NewNfcTagRepository() *nfcTagRepository {
	return &nfcTagRepository{}
}

func (r *nfcTagRepository) Create(ctx context.Context, e *entity.NfcTag) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *nfcTagRepository) GetByID(ctx context.Context, id string) (*entity.NfcTag, error) {
	var result entity.NfcTag
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *nfcTagRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.NfcTag, error) {
	var result entity.NfcTag
	if err := xcontext.DB(ctx).Take(&result, "external_id=?", externalID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *nfcTagRepository) GetListByTenantID(
	ctx context.Context, tenantID string, offset, limit int,
) ([]entity.NfcTag, error) {
	var result []entity.NfcTag
	err := xcontext.DB(ctx).
		Where("tenant_id=?", tenantID).
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *nfcTagRepository) UpdateByID(ctx context.Context, id string, e entity.NfcTag) error {
	return xcontext.DB(ctx).
		Model(&entity.NfcTag{}).
		Where("id=?", id).
		Updates(e).Error
}

func (r *nfcTagRepository) SetActive(ctx context.Context, id string, active bool) error {
	return xcontext.DB(ctx).
		Model(&entity.NfcTag{}).
		Where("id=?", id).
		Update("active", active).Error
}
