package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/selinay/moraled/internal/pkg/logger"
	"github.com/selinay/moraled/internal/server"
)

// @title Moraled API
// @version 1.0
// @description Role-based school behavior tracking and moral education administration API

// @contact.name API Support
// @contact.email support@moraled.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Local overrides only; absence of a .env file is fine.
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg("No .env file loaded")
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
