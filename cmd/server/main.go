package main

import (
	"os"
	"os/signal"
	"syscall"

	"server/cmd/migration/initialize"
	"server/cmd/migration/seed"
	"server/internal/app"
	"server/internal/handlers"
	"server/internal/logger"

	"github.com/gofiber/fiber/v2"
)

func main() {
	log := logger.New("main")

	app, err := app.New()
	if err != nil {
		log.Er("failed to build application", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := initialize.InitializeTables(app.Database.SQL, app.Config, log); err != nil {
		log.Er("failed to initialize tables", err)
		os.Exit(1)
	}

	if app.Config.SeedDevData {
		if err := seed.Seed(app.Database.SQL, app.Config, log); err != nil {
			log.Er("failed to seed development data", err)
			os.Exit(1)
		}
	}

	server := fiber.New(fiber.Config{
		AppName: "team-insight",
	})

	if err := handlers.Router(server, app); err != nil {
		log.Er("failed to register routes", err)
		os.Exit(1)
	}

	go func() {
		if err := server.Listen(":" + app.Config.ServerPort); err != nil {
			log.Er("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := server.Shutdown(); err != nil {
		log.Er("failed to shut down server", err)
	}
}
