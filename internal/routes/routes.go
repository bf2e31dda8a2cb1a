// Package routes wires handlers, services and repositories into the fiber
// application. Route registration order matters: static paths must precede
// the parameterized wallet routes.
package routes

import (
	"guildpay/internal/config"
	"guildpay/internal/events"
	"guildpay/internal/handlers"
	"guildpay/internal/middleware"
	"guildpay/internal/repositories"
	"guildpay/internal/services/user"
	"guildpay/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, publisher events.Publisher, log *logrus.Logger) {
	walletRepo := repositories.NewWalletRepository(repositories.DB)
	userRepo := repositories.NewUserRepository(repositories.DB)

	userService := user.NewService(userRepo, log)
	walletService := wallet.NewService(
		walletRepo,
		userRepo,
		repositories.CacheService,
		publisher,
		wallet.Config{
			DefaultCurrency:     config.GetEnv("DEFAULT_CURRENCY", wallet.DefaultCurrency),
			SystemUserDiscordID: config.GetEnv("SYSTEM_USER_DISCORD_ID", wallet.DefaultSystemUserDiscordID),
		},
		log,
		&wallet.NoopMetricsCollector{},
	)

	walletHandler := handlers.NewWalletHandler(walletService)
	botHandler := handlers.NewBotHandler(userService, walletService)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api/v1", middleware.InternalAuth(config.GetEnv("INTERNAL_API_TOKEN", "")))

	wallets := api.Group("/wallets")
	wallets.Get("/stats", walletHandler.GetSystemStats)
	wallets.Get("/system", walletHandler.GetSystemWallet)
	wallets.Post("/disburse", walletHandler.Disburse)
	wallets.Post("/", walletHandler.CreateWallet)
	wallets.Get("/", walletHandler.ListWallets)
	wallets.Get("/:id", walletHandler.GetWallet)
	wallets.Patch("/:id", walletHandler.UpdateWallet)
	wallets.Post("/:id/credit", walletHandler.Credit)
	wallets.Post("/:id/debit", walletHandler.Debit)
	wallets.Post("/:id/release", walletHandler.ReleasePending)
	wallets.Post("/:id/refund", walletHandler.Refund)
	wallets.Post("/:id/adjust", walletHandler.Adjust)
	wallets.Get("/:id/transactions", walletHandler.GetTransactionHistory)
	wallets.Get("/:id/stats", walletHandler.GetWalletStats)

	bot := api.Group("/bot")
	bot.Get("/wallet/:discordID", botHandler.GetWallet)
	bot.Post("/deposit", botHandler.Deposit)
	bot.Post("/charge", botHandler.Charge)
	bot.Post("/worker-deposit", botHandler.WorkerDeposit)
}
