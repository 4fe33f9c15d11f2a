package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/loyaltap/backend/internal/common"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/geoutil"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type TagDomain interface {
	Create(ctx context.Context, req *model.CreateTagRequest) (*model.CreateTagResponse, error)
	Update(ctx context.Context, req *model.UpdateTagRequest) (*model.UpdateTagResponse, error)
	GetList(ctx context.Context, req *model.GetTagsRequest) (*model.GetTagsResponse, error)
}

type tagDomain struct {
	nfcTagRepo     repository.NfcTagRepository
	tenantVerifier *common.TenantVerifier
}

func NewTagDomain(
	nfcTagRepo repository.NfcTagRepository,
	tenantVerifier *common.TenantVerifier,
) *tagDomain {
	return &tagDomain{nfcTagRepo: nfcTagRepo, tenantVerifier: tenantVerifier}
}

func (d *tagDomain) Create(
	ctx context.Context, req *model.CreateTagRequest,
) (*model.CreateTagResponse, error) {
	tenant, err := d.tenantVerifier.Verify(ctx)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.ExternalID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty external id")
	}

	if err := geoutil.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid coordinates: %v", err)
	}

	if req.RadiusMeters <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid radius %f", req.RadiusMeters)
	}

	if req.PointsPerScan == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a zero points per scan")
	}

	_, err = d.nfcTagRepo.GetByExternalID(ctx, req.ExternalID)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get tag by external id: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.AlreadyExists, "Duplicated external id")
	}

	tag := &entity.NfcTag{
		Base:          entity.Base{ID: uuid.NewString()},
		TenantID:      tenant.ID,
		ExternalID:    req.ExternalID,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		RadiusMeters:  req.RadiusMeters,
		PointsPerScan: req.PointsPerScan,
		UserDailyCap:  req.UserDailyCap,
		Active:        true,
	}

	if err := d.nfcTagRepo.Create(ctx, tag); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create tag: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateTagResponse{ID: tag.ID}, nil
}

func (d *tagDomain) Update(
	ctx context.Context, req *model.UpdateTagRequest,
) (*model.UpdateTagResponse, error) {
	tag, err := d.nfcTagRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tag %s: %v", req.ID, err)
		return nil, errorx.Unknown
	}

	if _, err := d.tenantVerifier.VerifyOwner(ctx, tag.TenantID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if req.RadiusMeters < 0 {
		return nil, errorx.New(errorx.BadRequest, "Invalid radius %f", req.RadiusMeters)
	}

	err = d.nfcTagRepo.UpdateByID(ctx, tag.ID, entity.NfcTag{
		RadiusMeters:  req.RadiusMeters,
		PointsPerScan: req.PointsPerScan,
		UserDailyCap:  req.UserDailyCap,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update tag: %v", err)
		return nil, errorx.Unknown
	}

	if req.Active != nil {
		if err := d.nfcTagRepo.SetActive(ctx, tag.ID, *req.Active); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot set tag active: %v", err)
			return nil, errorx.Unknown
		}
	}

	return &model.UpdateTagResponse{}, nil
}

func (d *tagDomain) GetList(
	ctx context.Context, req *model.GetTagsRequest,
) (*model.GetTagsResponse, error) {
	tenant, err := d.tenantVerifier.Verify(ctx)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	tags, err := d.nfcTagRepo.GetListByTenantID(ctx, tenant.ID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tag list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.NfcTag{}
	for i := range tags {
		result = append(result, model.ConvertNfcTag(&tags[i]))
	}

	return &model.GetTagsResponse{Tags: result}, nil
}
