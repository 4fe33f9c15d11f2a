package domain

import (
	"testing"

	"github.com/loyaltap/backend/internal/model"
	"github.com/loyaltap/backend/pkg/errorx"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestCreateTag(t *testing.T) {
	s := newTestSuite()
	ctx := s.asTenant(testutil.Tenant1.ID)

	resp, err := s.tagDomain.Create(ctx, &model.CreateTagRequest{
		ExternalID:    "TAG-NEW",
		Latitude:      10.5,
		Longitude:     -3.25,
		RadiusMeters:  50,
		PointsPerScan: 5,
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	tags, err := s.tagDomain.GetList(ctx, &model.GetTagsRequest{})
	require.NoError(t, err)
	require.Len(t, tags.Tags, 2)

	var errx errorx.Error

	// External identifiers are unique across tenants.
	_, err = s.tagDomain.Create(ctx, &model.CreateTagRequest{
		ExternalID:    "TAG-NEW",
		RadiusMeters:  50,
		PointsPerScan: 5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.AlreadyExists, errx.Code)
}

func TestCreateTagValidation(t *testing.T) {
	s := newTestSuite()
	ctx := s.asTenant(testutil.Tenant1.ID)

	var errx errorx.Error

	_, err := s.tagDomain.Create(ctx, &model.CreateTagRequest{
		ExternalID:    "TAG-BAD",
		Latitude:      95,
		RadiusMeters:  50,
		PointsPerScan: 5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = s.tagDomain.Create(ctx, &model.CreateTagRequest{
		ExternalID:    "TAG-BAD",
		RadiusMeters:  0,
		PointsPerScan: 5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	// An inactive tenant cannot register tags.
	_, err = s.tagDomain.Create(s.asTenant(testutil.Tenant2.ID), &model.CreateTagRequest{
		ExternalID:    "TAG-BAD",
		RadiusMeters:  50,
		PointsPerScan: 5,
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func TestUpdateTag(t *testing.T) {
	s := newTestSuite()
	ctx := s.asTenant(testutil.Tenant1.ID)

	active := false
	_, err := s.tagDomain.Update(ctx, &model.UpdateTagRequest{
		ID:            testutil.Tag1.ID,
		RadiusMeters:  75,
		PointsPerScan: 3,
		Active:        &active,
	})
	require.NoError(t, err)

	tag, err := s.nfcTagRepo.GetByID(s.ctx, testutil.Tag1.ID)
	require.NoError(t, err)
	require.Equal(t, float64(75), tag.RadiusMeters)
	require.Equal(t, uint64(3), tag.PointsPerScan)
	require.False(t, tag.Active)

	// Another tenant cannot touch the tag.
	otherCtx := s.asTenant(testutil.Tenant2.ID)
	_, err = s.tagDomain.Update(otherCtx, &model.UpdateTagRequest{ID: testutil.Tag1.ID})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)
}

func TestGetMe(t *testing.T) {
	s := newTestSuite()

	resp, err := s.userDomain.GetMe(s.asUser(testutil.User1.ID), &model.GetMeRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
	require.Equal(t, 1, resp.User.Level)

	_, err = s.userDomain.GetMe(s.asUser("nobody"), &model.GetMeRequest{})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
