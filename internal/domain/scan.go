package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/loyaltap/backend/internal/domain/event"
	"github.com/loyaltap/backend/internal/domain/ledger"
	"github.com/loyaltap/backend/internal/domain/rateguard"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/geoutil"
	"github.com/loyaltap/backend/pkg/idutil"
	"github.com/loyaltap/backend/pkg/pubsub"
	"github.com/loyaltap/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ScanDomain interface {
	Scan(ctx context.Context, req *model.ScanRequest) (*model.ScanResponse, error)
	GetMyScans(ctx context.Context, req *model.GetMyScansRequest) (*model.GetMyScansResponse, error)
}

type scanDomain struct {
	nfcTagRepo  repository.NfcTagRepository
	nfcScanRepo repository.NfcScanRepository
	tenantRepo  repository.TenantRepository
	ledger      ledger.Ledger
	guard       *rateguard.Guard
	publisher   pubsub.Publisher
}

func NewScanDomain(
	nfcTagRepo repository.NfcTagRepository,
	nfcScanRepo repository.NfcScanRepository,
	tenantRepo repository.TenantRepository,
	ledger ledger.Ledger,
	guard *rateguard.Guard,
	publisher pubsub.Publisher,
) *scanDomain {
	return &scanDomain{
		nfcTagRepo:  nfcTagRepo,
		nfcScanRepo: nfcScanRepo,
		tenantRepo:  tenantRepo,
		ledger:      ledger,
		guard:       guard,
		publisher:   publisher,
	}
}

func (d *scanDomain) Scan(ctx context.Context, req *model.ScanRequest) (*model.ScanResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if err := geoutil.ValidateCoordinates(req.Latitude, req.Longitude); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid coordinates: %v", err)
	}

	cfg := xcontext.Configs(ctx).Scan
	err := d.guard.CheckAndConsume(ctx,
		rateguard.Scope{
			Name:  "scan-user",
			Key:   userID,
			Limit: cfg.UserDailyLimit,
			Mode:  rateguard.Calendar,
		},
		rateguard.Scope{
			Name:  "scan-tag",
			Key:   req.TagIdentifier,
			Limit: cfg.TagDailyLimit,
			Mode:  rateguard.Calendar,
		},
		rateguard.Scope{
			Name:  "scan-ip",
			Key:   xcontext.RemoteIP(ctx),
			Limit: cfg.IPDailyLimit,
			Mode:  rateguard.Calendar,
		},
	)
	if err != nil {
		return nil, err
	}

	tag, err := d.nfcTagRepo.GetByExternalID(ctx, req.TagIdentifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found tag")
		}

		xcontext.Logger(ctx).Errorf("Cannot get tag %s: %v", req.TagIdentifier, err)
		return nil, errorx.Unknown
	}

	if !tag.Active {
		return nil, errorx.New(errorx.Unavailable, "Tag is not active")
	}

	tenant, err := d.tenantRepo.GetByID(ctx, tag.TenantID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get tenant of tag %s: %v", tag.ID, err)
		return nil, errorx.Unknown
	}

	if tenant.Status != entity.TenantActive {
		return nil, errorx.New(errorx.Unavailable, "Tag is not active")
	}

	if tag.UserDailyCap > 0 {
		err := d.guard.CheckAndConsume(ctx, rateguard.Scope{
			Name:  "scan-user-tag",
			Key:   fmt.Sprintf("%s:%s", userID, tag.ID),
			Limit: tag.UserDailyCap,
			Mode:  rateguard.Calendar,
		})
		if err != nil {
			return nil, err
		}
	}

	distance := geoutil.Distance(req.Latitude, req.Longitude, tag.Latitude, tag.Longitude)
	if distance > tag.RadiusMeters {
		return nil, errorx.New(errorx.OutOfRange,
			"You are %.0f meters away from this tag", distance)
	}

	cooldownKey := fmt.Sprintf("scan:%s:%s", userID, tag.ID)
	if err := d.guard.CheckCooldown(ctx, cooldownKey); err != nil {
		return nil, err
	}

	scan := &entity.NfcScan{
		ID:             idutil.NewScanID(),
		UserID:         userID,
		TagID:          tag.ID,
		TenantID:       tag.TenantID,
		PointsAwarded:  tag.PointsPerScan,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		DistanceMeters: distance,
		Valid:          true,
		DeviceInfo:     req.DeviceInfo,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	balance, err := d.ledger.Award(ctx, userID, tag.PointsPerScan, "scan")
	if err != nil {
		return nil, err
	}

	if err := d.nfcScanRepo.Create(ctx, scan); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create scan record: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	if err := d.guard.SetCooldown(ctx, cooldownKey, cfg.Cooldown); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set scan cooldown: %v", err)
	}

	event.Emit(ctx, d.publisher, event.ScanTopic, scan.TagID, event.ScanCompleted{
		ScanID:        scan.ID,
		UserID:        userID,
		TagID:         scan.TagID,
		TenantID:      scan.TenantID,
		PointsAwarded: scan.PointsAwarded,
	})
	event.Emit(ctx, d.publisher, event.PointsTopic, userID, event.PointsChanged{
		UserID:  userID,
		Delta:   int64(scan.PointsAwarded),
		Balance: balance,
		Reason:  "scan",
	})

	return &model.ScanResponse{ScanID: scan.ID, PointsAwarded: scan.PointsAwarded}, nil
}

func (d *scanDomain) GetMyScans(
	ctx context.Context, req *model.GetMyScansRequest,
) (*model.GetMyScansResponse, error) {
	apiCfg := xcontext.Configs(ctx).ApiServer
	if req.Limit == 0 {
		req.Limit = apiCfg.DefaultLimit
	}

	if req.Limit < 0 || req.Limit > apiCfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Invalid limit %d", req.Limit)
	}

	scans, err := d.nfcScanRepo.GetListByUserID(ctx, xcontext.RequestUserID(ctx), req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get scan list: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.NfcScan{}
	for i := range scans {
		result = append(result, model.ConvertNfcScan(&scans[i]))
	}

	return &model.GetMyScansResponse{Scans: result}, nil
}
