package main

import (
	"os"

	"github.com/undergraduation/ugadmin/internal/pkg/logger"
	"github.com/undergraduation/ugadmin/internal/server"
)

// @title Undergraduation Admin API
// @version 1.0
// @description Internal admin dashboard API for managing student applicants

// @contact.name Platform Team
// @contact.email platform@undergraduation.com

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
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
}
