package xcontext

import (
	"context"

	"github.com/gorilla/sessions"
	"github.com/loyaltap/backend/config"
	"github.com/loyaltap/backend/pkg/authenticator"
	"github.com/loyaltap/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey      struct{}
	loggerKey       struct{}
	dbKey           struct{}
	txKey           struct{}
	tokenEngineKey  struct{}
	sessionStoreKey struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	return ctx.Value(configsKey{}).(config.Configs)
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	return ctx.Value(loggerKey{}).(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the current database handle. Inside an open transaction started
// by WithDBTransaction, it returns the transaction instead.
func DB(ctx context.Context) *gorm.DB {
	if state := txOf(ctx); state != nil && !state.done {
		return state.tx
	}

	return ctx.Value(dbKey{}).(*gorm.DB)
}

type txState struct {
	tx   *gorm.DB
	done bool
}

func txOf(ctx context.Context) *txState {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state
	}

	return nil
}

// WithDBTransaction begins a database transaction. Until the returned context
// is committed or rolled back, every DB() call on it operates inside the
// transaction.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, txKey{}, &txState{tx: DB(ctx).Begin()})
}

// WithCommitDBTransaction commits the transaction if it is still open.
func WithCommitDBTransaction(ctx context.Context) {
	if state := txOf(ctx); state != nil && !state.done {
		state.tx.Commit()
		state.done = true
	}
}

// WithRollbackDBTransaction rollbacks the transaction if it is still open. It
// is a no-op after WithCommitDBTransaction, so it is safe to defer.
func WithRollbackDBTransaction(ctx context.Context) {
	if state := txOf(ctx); state != nil && !state.done {
		state.tx.Rollback()
		state.done = true
	}
}

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine {
	return ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine)
}

func WithSessionStore(ctx context.Context, store sessions.Store) context.Context {
	return context.WithValue(ctx, sessionStoreKey{}, store)
}

func SessionStore(ctx context.Context) sessions.Store {
	return ctx.Value(sessionStoreKey{}).(sessions.Store)
}
