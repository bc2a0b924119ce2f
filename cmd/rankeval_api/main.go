package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/rank-hunter/internal/router"
	"github.com/DjordjeVuckovic/rank-hunter/internal/server"
	pkgserver "github.com/DjordjeVuckovic/rank-hunter/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	e := echo.New()
	e.HideBanner = true

	s := server.NewServer(e, cfg).
		SetupHealthChecks("/healthz", pkgserver.NewOkHealthChecker())

	manager := server.NewPassManager()
	router.NewPassRouter(e, manager).Bind()

	slog.Info("Starting pass ingestion API", "port", cfg.Port)
	if err := s.Start(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
