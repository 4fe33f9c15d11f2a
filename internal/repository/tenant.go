package repository

import (
	"context"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/xcontext"
)

type TenantRepository interface {
	Create(ctx context.Context, e *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
}

type tenantRepository struct{}

func NewTenantRepository() *tenantRepository {
	return &tenantRepository{}
}

func (r *tenantRepository) Create(ctx context.Context, e *entity.Tenant) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	var result entity.Tenant
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
