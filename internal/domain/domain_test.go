package domain

import (
	"context"

	"github.com/loyaltap/backend/internal/common"
	"github.com/loyaltap/backend/internal/domain/ledger"
	"github.com/loyaltap/backend/internal/domain/rateguard"
	"github.com/loyaltap/backend/internal/domain/statistic"
	"github.com/loyaltap/backend/internal/repository"
	"github.com/loyaltap/backend/pkg/testutil"
	"github.com/loyaltap/backend/pkg/xcontext"
)

type testSuite struct {
	ctx       context.Context
	redis     *testutil.InMemoryRedis
	publisher *testutil.MockPublisher

	userRepo        repository.UserRepository
	tenantRepo      repository.TenantRepository
	nfcTagRepo      repository.NfcTagRepository
	nfcScanRepo     repository.NfcScanRepository
	tokenRepo       repository.TokenRepository
	tokenClaimRepo  repository.TokenClaimRepository
	challengeRepo   repository.ChallengeRepository
	participantRepo repository.ChallengeParticipantRepository

	ledger    ledger.Ledger
	standings statistic.Standings

	scanDomain      ScanDomain
	tokenDomain     TokenDomain
	challengeDomain ChallengeDomain
	tagDomain       TagDomain
	userDomain      UserDomain
}

func newTestSuite() *testSuite {
	s := &testSuite{
		ctx:       testutil.MockContext(),
		redis:     testutil.NewInMemoryRedis(),
		publisher: testutil.NewMockPublisher(),

		userRepo:        repository.NewUserRepository(),
		tenantRepo:      repository.NewTenantRepository(),
		nfcTagRepo:      repository.NewNfcTagRepository(),
		nfcScanRepo:     repository.NewNfcScanRepository(),
		tokenRepo:       repository.NewTokenRepository(),
		tokenClaimRepo:  repository.NewTokenClaimRepository(),
		challengeRepo:   repository.NewChallengeRepository(),
		participantRepo: repository.NewChallengeParticipantRepository(),
	}

	testutil.InsertFixtures(s.ctx)

	guard := rateguard.New(s.redis)
	tenantVerifier := common.NewTenantVerifier(s.tenantRepo)

	s.ledger = ledger.New(s.userRepo)
	s.standings = statistic.New(s.participantRepo, s.redis)

	s.scanDomain = NewScanDomain(s.nfcTagRepo, s.nfcScanRepo, s.tenantRepo, s.ledger, guard, s.publisher)
	s.tokenDomain = NewTokenDomain(s.tokenRepo, s.tokenClaimRepo, s.ledger, tenantVerifier, s.publisher)
	s.challengeDomain = NewChallengeDomain(
		s.challengeRepo, s.participantRepo, s.ledger, s.standings, tenantVerifier, s.publisher)
	s.tagDomain = NewTagDomain(s.nfcTagRepo, tenantVerifier)
	s.userDomain = NewUserDomain(s.userRepo)

	return s
}

func (s *testSuite) asUser(userID string) context.Context {
	return xcontext.WithRequestUserID(s.ctx, userID)
}

func (s *testSuite) asTenant(tenantID string) context.Context {
	return xcontext.WithRequestTenantID(s.ctx, tenantID)
}
