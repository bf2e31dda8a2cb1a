// Command migrate applies the schema and seeds the system user and its
// SUPPORT wallet.
package main

import (
	"context"

	"guildpay/internal/config"
	"guildpay/internal/logger"
	"guildpay/internal/repositories"
	"guildpay/internal/services/wallet"
)

func main() {
	config.LoadEnv()
	log := logger.New()

	if err := repositories.InitDB(); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	log.Info("schema migrated")

	svc := wallet.NewService(
		repositories.NewWalletRepository(repositories.DB),
		repositories.NewUserRepository(repositories.DB),
		nil,
		nil,
		wallet.Config{
			SystemUserDiscordID: config.GetEnv("SYSTEM_USER_DISCORD_ID", wallet.DefaultSystemUserDiscordID),
		},
		log,
		nil,
	)

	w, err := svc.GetSystemWallet(context.Background())
	if err != nil {
		log.WithError(err).Fatal("failed to seed system wallet")
	}
	log.WithField("wallet_id", w.ID).Info("system wallet ready")
}
