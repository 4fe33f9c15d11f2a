package entity

import (
	"context"

	"github.com/loyaltap/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Tenant{},
		&NfcTag{},
		&NfcScan{},
		&Challenge{},
		&ChallengeParticipant{},
		&Token{},
		&TokenClaim{},
	)
}
