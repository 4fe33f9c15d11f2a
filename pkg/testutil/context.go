package testutil

import (
	"context"
	"time"

	"github.com/gorilla/sessions"
	"github.com/loyaltap/backend/config"
	"github.com/loyaltap/backend/internal/entity"
	"github.com/loyaltap/backend/pkg/authenticator"
	"github.com/loyaltap/backend/pkg/logger"
	"github.com/loyaltap/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// Every pooled connection of an in-memory sqlite gets its own database.
	// Pin the pool to one connection so all queries see the same data.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Configs{
		ApiServer: config.ServerConfigs{
			DefaultLimit: 10,
			MaxLimit:     50,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
		},
		Session: config.SessionConfigs{
			Secret: "session-secret",
		},
		Scan: config.ScanConfigs{
			UserDailyLimit: 50,
			TagDailyLimit:  1000,
			IPDailyLimit:   200,
			Cooldown:       5 * time.Minute,
		},
		Challenge: config.ChallengeConfigs{
			MaxRules: 20,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}

func MockContextWithTenantID(tenantID string) context.Context {
	return xcontext.WithRequestTenantID(MockContext(), tenantID)
}
