package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/loyaltap/backend/internal/middleware"
	"github.com/loyaltap/backend/pkg/router"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/rs/cors"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadBaseContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", s.configs.ApiServer.Host, s.configs.ApiServer.Port),
		Handler: c.Handler(s.router.Handler()),
	}

	log.Printf("Starting server on port: %s\n", s.configs.ApiServer.Port)
	if err := s.server.ListenAndServe(); err != nil {
		panic(err)
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.Logger())
	s.router.Before(middleware.WithAuthentication())

	// These following APIs need authentication with a user token.
	userRouter := s.router.Branch("/")
	userRouter.Before(middleware.Authenticate())
	{
		router.GET(userRouter, "/getMe", s.userDomain.GetMe)

		// Scan API
		router.POST(userRouter, "/scan", s.scanDomain.Scan)
		router.GET(userRouter, "/getMyScans", s.scanDomain.GetMyScans)

		// Token API
		router.POST(userRouter, "/claimToken", s.tokenDomain.Claim)
		router.GET(userRouter, "/getMyClaims", s.tokenDomain.GetMyClaims)

		// Challenge API
		router.POST(userRouter, "/joinChallenge", s.challengeDomain.Join)
		router.POST(userRouter, "/leaveChallenge", s.challengeDomain.Leave)
		router.GET(userRouter, "/getMyRank", s.challengeDomain.GetMyRank)
	}

	// These following APIs need authentication with a tenant token.
	tenantRouter := s.router.Branch("/")
	tenantRouter.Before(middleware.AuthenticateTenant())
	{
		// Tag API
		router.POST(tenantRouter, "/createTag", s.tagDomain.Create)
		router.POST(tenantRouter, "/updateTag", s.tagDomain.Update)
		router.GET(tenantRouter, "/getTags", s.tagDomain.GetList)

		// Token API
		router.POST(tenantRouter, "/createToken", s.tokenDomain.Create)
		router.POST(tenantRouter, "/redeemToken", s.tokenDomain.Redeem)

		// Challenge API
		router.POST(tenantRouter, "/createChallenge", s.challengeDomain.Create)
		router.POST(tenantRouter, "/publishChallenge", s.challengeDomain.Publish)
		router.POST(tenantRouter, "/addScore", s.challengeDomain.AddScore)
		router.POST(tenantRouter, "/completeChallenge", s.challengeDomain.Complete)
	}

	// Public API.
	router.GET(s.router, "/getTokens", s.tokenDomain.GetList)
	router.GET(s.router, "/getStandings", s.challengeDomain.GetStandings)
}
