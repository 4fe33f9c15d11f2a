package testutil

import (
	"context"
	"time"

	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/internal/repository"
)

var (
	User1 = entity.User{
		Base:   entity.Base{ID: "user1"},
		Name:   "alice",
		Status: entity.UserActive,
		Level:  1,
	}

	User2 = entity.User{
		Base:   entity.Base{ID: "user2"},
		Name:   "bob",
		Status: entity.UserActive,
		Level:  1,
	}

	Tenant1 = entity.Tenant{
		Base:      entity.Base{ID: "tenant1"},
		Name:      "coffee-corner",
		Status:    entity.TenantActive,
		Latitude:  0,
		Longitude: 0,
	}

	Tenant2 = entity.Tenant{
		Base:   entity.Base{ID: "tenant2"},
		Name:   "closed-shop",
		Status: entity.TenantInactive,
	}

	Tag1 = entity.NfcTag{
		Base:          entity.Base{ID: "tag1"},
		TenantID:      Tenant1.ID,
		ExternalID:    "TAG-0001",
		Latitude:      0,
		Longitude:     0,
		RadiusMeters:  1000,
		PointsPerScan: 10,
		Active:        true,
	}

	Token1 = entity.Token{
		Base:              entity.Base{ID: "token1"},
		TenantID:          Tenant1.ID,
		Name:              "free-espresso",
		RequiredPoints:    30,
		QuantityAvailable: 5,
		Active:            true,
	}

	Challenge1 = entity.Challenge{
		Base:     entity.Base{ID: "challenge1"},
		TenantID: Tenant1.ID,
		Type:     entity.ChallengeOpen,
		Category: "scan_count",
		Status:   entity.ChallengeActive,
		Rules:    entity.Map{"points_per_scan": 1},
	}
)

// InsertFixtures populates the database of ctx with the sample tenants,
// users, tags, tokens, and an active challenge above. Time-dependent fields
// are set relative to now.
func InsertFixtures(ctx context.Context) {
	insertUsers(ctx)
	insertTenants(ctx)
	insertTags(ctx)
	insertTokens(ctx)
	insertChallenges(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2} {
		u := user
		if err := userRepo.Create(ctx, &u); err != nil {
			panic(err)
		}
	}
}

func insertTenants(ctx context.Context) {
	tenantRepo := repository.NewTenantRepository()
	for _, tenant := range []entity.Tenant{Tenant1, Tenant2} {
		t := tenant
		if err := tenantRepo.Create(ctx, &t); err != nil {
			panic(err)
		}
	}
}

func insertTags(ctx context.Context) {
	tagRepo := repository.NewNfcTagRepository()
	t := Tag1
	if err := tagRepo.Create(ctx, &t); err != nil {
		panic(err)
	}
}

func insertTokens(ctx context.Context) {
	tokenRepo := repository.NewTokenRepository()
	t := Token1
	t.ExpiredAt = time.Now().Add(24 * time.Hour)
	if err := tokenRepo.Create(ctx, &t); err != nil {
		panic(err)
	}
}

func insertChallenges(ctx context.Context) {
	challengeRepo := repository.NewChallengeRepository()
	c := Challenge1
	c.StartDate = time.Now().Add(-time.Hour)
	c.EndDate = time.Now().Add(24 * time.Hour)
	if err := challengeRepo.Create(ctx, &c); err != nil {
		panic(err)
	}
}
