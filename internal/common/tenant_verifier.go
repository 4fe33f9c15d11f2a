package common

import (
	"context"
	"errors"
	"fmt"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/xcontext"
)

// TenantVerifier checks that the requesting actor is an active tenant, and
// optionally that it owns the targeted resource.
type TenantVerifier struct {
	tenantRepo repository.TenantRepository
}

func NewTenantVerifier(tenantRepo repository.TenantRepository) *TenantVerifier {
	return &TenantVerifier{tenantRepo: tenantRepo}
}

func (verifier *TenantVerifier) Verify(ctx context.Context) (*entity.Tenant, error) {
	tenantID := xcontext.RequestTenantID(ctx)
	if tenantID == "" {
		return nil, errors.New("no tenant in request")
	}

	tenant, err := verifier.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("tenant is not valid")
	}

	if tenant.Status != entity.TenantActive {
		return nil, fmt.Errorf("tenant is not active")
	}

	return tenant, nil
}

func (verifier *TenantVerifier) VerifyOwner(ctx context.Context, ownerTenantID string) (*entity.Tenant, error) {
	tenant, err := verifier.Verify(ctx)
	if err != nil {
		return nil, err
	}

	if tenant.ID != ownerTenantID {
		return nil, fmt.Errorf("tenant does not own this resource")
	}

	return tenant, nil
}
