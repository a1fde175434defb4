package main

import (
	"context"
	"os"

	"github.com/siprista/backend/internal/pkg/logger"
	"github.com/siprista/backend/internal/server"
)

// @title SIPRISTA API
// @version 1.0
// @description Sistem Informasi Prestasi Siswa: students, teachers, achievements and reports.

// @contact.name API Support
// @contact.email admin@siprista.com

// @host localhost:8080
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token returned by /auth/login

func main() {
	// SIPRISTA_CONFIG overrides the default configs/config.yaml
	srv, err := server.NewServer(context.Background(), os.Getenv("SIPRISTA_CONFIG"))
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
