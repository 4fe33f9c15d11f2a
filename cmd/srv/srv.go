package main

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/loyaltap/backend/config"
	"github.com/loyaltap/backend/internal/common"
	"github.com/loyaltap/backend/internal/domain"
	"github.com/loyaltap/backend/internal/domain/ledger"
	"github.com/loyaltap/backend/internal/domain/rateguard"
	"github.com/loyaltap/backend/internal/domain/statistic"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/migration"
	"github.com/loyaltap/backend/pkg/authenticator"
	"github.com/loyaltap/backend/pkg/kafka"
	"github.com/loyaltap/backend/pkg/logger"
	"github.com/loyaltap/backend/pkg/pubsub"
	"github.com/loyaltap/backend/pkg/router"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/loyaltap/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs

	userRepo        repository.UserRepository
	tenantRepo      repository.TenantRepository
	nfcTagRepo      repository.NfcTagRepository
	nfcScanRepo     repository.NfcScanRepository
	tokenRepo       repository.TokenRepository
	tokenClaimRepo  repository.TokenClaimRepository
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ChallengeParticipantRepository

	tenantVerifier *common.TenantVerifier
	ledger         ledger.Ledger
	guard          *rateguard.Guard
	standings      statistic.Standings

	userDomain      domain.UserDomain
	scanDomain      domain.ScanDomain
	tagDomain       domain.TagDomain
	tokenDomain     domain.TokenDomain
	challengeDomain domain.ChallengeDomain

	redisClient xredis.Client
	publisher   pubsub.Publisher

	router *router.Router
	server *http.Server
}

// loadBaseContext builds the context every request and job starts from. It
// must run after loadConfig.
func (s *srv) loadBaseContext() {
	level := logger.INFO
	if s.configs.Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
	s.ctx = xcontext.WithTokenEngine(s.ctx,
		authenticator.NewTokenEngine(s.configs.Auth.TokenSecret))
	s.ctx = xcontext.WithSessionStore(s.ctx,
		sessions.NewCookieStore([]byte(s.configs.Session.Secret)))
}

func (s *srv) newDatabase() *gorm.DB {
	db, err := gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadPublisher() {
	var err error
	s.publisher, err = kafka.NewPublisher("api", []string{s.configs.Kafka.Addr})
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.tenantRepo = repository.NewTenantRepository()
	s.nfcTagRepo = repository.NewNfcTagRepository()
	s.nfcScanRepo = repository.NewNfcScanRepository()
	s.tokenRepo = repository.NewTokenRepository()
	s.tokenClaimRepo = repository.NewTokenClaimRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.participantRepo = repository.NewChallengeParticipantRepository()
}

func (s *srv) loadDomains() {
	s.tenantVerifier = common.NewTenantVerifier(s.tenantRepo)
	s.ledger = ledger.New(s.userRepo)
	s.guard = rateguard.New(s.redisClient)
	s.standings = statistic.New(s.participantRepo, s.redisClient)

	s.userDomain = domain.NewUserDomain(s.userRepo)
	s.scanDomain = domain.NewScanDomain(
		s.nfcTagRepo, s.nfcScanRepo, s.tenantRepo, s.ledger, s.guard, s.publisher)
	s.tagDomain = domain.NewTagDomain(s.nfcTagRepo, s.tenantVerifier)
	s.tokenDomain = domain.NewTokenDomain(
		s.tokenRepo, s.tokenClaimRepo, s.ledger, s.tenantVerifier, s.publisher)
	s.challengeDomain = domain.NewChallengeDomain(
		s.challengeRepo, s.participantRepo, s.ledger, s.standings,
		s.tenantVerifier, s.publisher)
}
