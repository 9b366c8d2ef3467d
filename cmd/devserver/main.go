package main

import (
	"github.com/gin-gonic/gin"

	"github.com/vikkirkobane/karma-club-sub000/internal/catalog"
	"github.com/vikkirkobane/karma-club-sub000/internal/config"
	"github.com/vikkirkobane/karma-club-sub000/internal/devserver"
	"github.com/vikkirkobane/karma-club-sub000/pkg/logger"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		var err error
		cat, err = catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.CatalogFile).Msg("failed to load catalog file")
		}
	}

	srv, err := devserver.New(cfg.DatabasePath, cat, logger.With("devserver"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start devserver")
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("devserver exited")
	}
}
