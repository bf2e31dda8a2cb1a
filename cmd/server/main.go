// Package main is the entry point for the wallet service. It initializes
// the database, cache and event broker, sets up the HTTP server and runs
// until interrupted.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"guildpay/internal/config"
	"guildpay/internal/events"
	"guildpay/internal/logger"
	"guildpay/internal/repositories"
	"guildpay/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadEnv()
	log := logger.New()

	if err := repositories.InitDB(); err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			sqlDB.Close()
		}
		if repositories.CacheService != nil {
			repositories.CacheService.Close()
		}
	}()

	// The event broker is optional: without AMQP_URL the ledger still works,
	// the bot just gets no push notifications.
	var publisher events.Publisher = events.NoopPublisher{}
	if url := config.GetEnv("AMQP_URL", ""); url != "" {
		p, err := events.NewPublisher(url, log)
		if err != nil {
			log.WithError(err).Warn("event broker unavailable, continuing without notifications")
		} else {
			publisher = p
			defer p.Close()
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "guildpay",
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, X-Internal-Token",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, publisher, log)

	go func() {
		addr := ":" + config.GetEnv("PORT", "8080")
		if err := app.Listen(addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("failed to shut down cleanly")
	}
}
