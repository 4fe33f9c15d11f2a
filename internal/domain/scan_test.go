package domain

import (
	"testing"
	"time"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

// Tag1 sits at the equator, so one degree of longitude is about 111195
// meters: 0.0089 degrees is roughly 990 meters, 0.009 degrees about 1001.
const (
	lonInsideRadius  = 0.0089
	lonOutsideRadius = 0.009
)

func TestScanHappyPath(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	resp, err := s.scanDomain.Scan(ctx, &model.ScanRequest{
		TagIdentifier: testutil.Tag1.ExternalID,
		Latitude:      0,
		Longitude:     lonInsideRadius,
	})
	require.NoError(t, err)
	require.NotZero(t, resp.ScanID)
	require.Equal(t, uint64(10), resp.PointsAwarded)

	balance, err := s.ledger.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(10), balance)

	scans, err := s.scanDomain.GetMyScans(ctx, &model.GetMyScansRequest{})
	require.NoError(t, err)
	require.Len(t, scans.Scans, 1)
	require.Equal(t, resp.ScanID, scans.Scans[0].ID)
	require.Equal(t, testutil.Tag1.ID, scans.Scans[0].TagID)

	require.Len(t, s.publisher.Published("scans"), 1)
	require.Len(t, s.publisher.Published("points"), 1)
}

func TestScanInvalidCoordinates(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	var errx errorx.Error

	_, err := s.scanDomain.Scan(ctx, &model.ScanRequest{
		TagIdentifier: testutil.Tag1.ExternalID,
		Latitude:      91,
		Longitude:     0,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func TestScanUnknownTag(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	var errx errorx.Error

	_, err := s.scanDomain.Scan(ctx, &model.ScanRequest{TagIdentifier: "TAG-NOPE"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func TestScanOutOfRange(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	var errx errorx.Error

	_, err := s.scanDomain.Scan(ctx, &model.ScanRequest{
		TagIdentifier: testutil.Tag1.ExternalID,
		Latitude:      0,
		Longitude:     lonOutsideRadius,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.OutOfRange, errx.Code)

	// A rejected scan leaves no trace.
	balance, err := s.ledger.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(0), balance)

	scans, err := s.scanDomain.GetMyScans(ctx, &model.GetMyScansRequest{})
	require.NoError(t, err)
	require.Empty(t, scans.Scans)
}

func TestScanInactiveTag(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	require.NoError(t, s.nfcTagRepo.SetActive(s.ctx, testutil.Tag1.ID, false))

	var errx errorx.Error

	_, err := s.scanDomain.Scan(ctx, &model.ScanRequest{
		TagIdentifier: testutil.Tag1.ExternalID,
		Latitude:      0,
		Longitude:     lonInsideRadius,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func TestScanInactiveTenant(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	tag := &entity.NfcTag{
		Base:          entity.Base{ID: "tag-closed"},
		TenantID:      testutil.Tenant2.ID,
		ExternalID:    "TAG-CLOSED",
		RadiusMeters:  1000,
		PointsPerScan: 10,
		Active:        true,
	}
	require.NoError(t, s.nfcTagRepo.Create(s.ctx, tag))

	var errx errorx.Error

	_, err := s.scanDomain.Scan(ctx, &model.ScanRequest{TagIdentifier: "TAG-CLOSED"})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.Unavailable, errx.Code)
}

func TestScanCooldown(t *testing.T) {
	s := newTestSuite()
	ctx := s.asUser(testutil.User1.ID)

	req := &model.ScanRequest{
		TagIdentifier: testutil.Tag1.ExternalID,
		Latitude:      0,
		Longitude:     lonInsideRadius,
	}

	_, err := s.scanDomain.Scan(ctx, req)
	require.NoError(t, err)

	_, err = s.scanDomain.Scan(ctx, req)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.CooldownActive, errx.Code)

	// The cooldown expires after the configured duration.
	s.redis.Advance(xcontext.Configs(s.ctx).Scan.Cooldown + time.Second)

	_, err = s.scanDomain.Scan(ctx, req)
	require.NoError(t, err)

	balance, err := s.ledger.Balance(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, uint64(20), balance)
}

func TestScanPerUserTagDailyCap(t *testing.T) {
	s := newTestSuite()

	// Shrink the cooldown so only the cap gates repeated scans.
	cfg := xcontext.Configs(s.ctx)
	cfg.Scan.Cooldown = time.Millisecond
	ctx := xcontext.WithRequestUserID(xcontext.WithConfigs(s.ctx, cfg), testutil.User1.ID)

	tag := &entity.NfcTag{
		Base:          entity.Base{ID: "tag-capped"},
		TenantID:      testutil.Tenant1.ID,
		ExternalID:    "TAG-CAPPED",
		RadiusMeters:  1000,
		PointsPerScan: 5,
		UserDailyCap:  2,
		Active:        true,
	}
	require.NoError(t, s.nfcTagRepo.Create(s.ctx, tag))

	req := &model.ScanRequest{TagIdentifier: "TAG-CAPPED"}

	for i := 0; i < 2; i++ {
		_, err := s.scanDomain.Scan(ctx, req)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	_, err := s.scanDomain.Scan(ctx, req)
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.TooManyRequests, errx.Code)
}
