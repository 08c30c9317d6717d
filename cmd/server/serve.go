package main

import (
	"github.com/spf13/cobra"

	"github.com/go-taken/ocr-api/internal/config"
	"github.com/go-taken/ocr-api/internal/logging"
	"github.com/go-taken/ocr-api/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the OCR server",
	Long: `Start the OCR HTTP server.

Every path answers:
  - GET     liveness probe
  - OPTIONS CORS preflight
  - POST    PDF upload, returns per-page text

Examples:
  ocr-api serve
  OCR_PORT=3000 ocr-api serve
  ocr-api serve --config ./config.yaml`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cm, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := cm.Get()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	if file := cm.ConfigFile(); file != "" {
		logger.WithField("file", file).Info("loaded config")
		cm.OnChange(func(c *config.Config) {
			if err := logging.SetLevel(logger, c.LogLevel); err != nil {
				logger.WithError(err).Warn("ignoring log level change")
				return
			}
			logger.WithField("log_level", c.LogLevel).Info("config reloaded")
		})
		cm.WatchConfig()
	}

	if err := server.Run(cmd.Context(), cfg, logger); err != nil {
		logger.WithError(err).Error("server stopped")
		return err
	}
	return nil
}
