package main

import (
	"github.com/loyaltap/backend/migration"
	"github.com/loyaltap/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	s.loadBaseContext()
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	if err := migration.Migrate(s.ctx); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Migrated database successfully")
	return nil
}
