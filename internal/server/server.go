package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/go-taken/ocr-api/internal/config"
	"github.com/go-taken/ocr-api/internal/ocr"
	"github.com/go-taken/ocr-api/internal/ocr/poppler"
	"github.com/go-taken/ocr-api/internal/ocr/tesseract"
	"github.com/go-taken/ocr-api/internal/server/handler"
	"github.com/go-taken/ocr-api/internal/server/router"
	"github.com/go-taken/ocr-api/internal/server/service"
	"github.com/go-taken/ocr-api/internal/staging"
)

// Server is the OCR HTTP server.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	stagingDir      string
	logger          logrus.FieldLogger
}

// New builds the dependency chain around the given engines.
func New(cfg *config.Config, logger logrus.FieldLogger, rasterizer ocr.Rasterizer, recognizer ocr.Recognizer) *Server {
	pipeline := ocr.NewPipeline(rasterizer, recognizer,
		ocr.WithWorkers(cfg.Workers),
		ocr.WithLogger(logger),
	)
	stager := staging.New(cfg.StagingDir)
	ocrService := service.NewOCRService(pipeline, stager, logger)
	ocrHandler := handler.NewOCRHandler(ocrService, cfg.MaxUploadBytes)

	// Setup router with all routes and middleware
	r := router.New(logger, ocrHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 30 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		stagingDir:      stager.Dir(),
		logger:          logger,
	}
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.WithFields(logrus.Fields{
			"addr":        s.httpServer.Addr,
			"staging_dir": s.stagingDir,
		}).Info("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Run starts the HTTP server with the poppler rasterizer and Tesseract.
func Run(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) error {
	binary, err := poppler.ResolveBinary(cfg.Rasterizer.Binary)
	if err != nil {
		return err
	}
	logger.WithField("binary", binary).Info("using pdftoppm")
	if cfg.StagingDir != "" {
		if err := os.MkdirAll(cfg.StagingDir, 0o700); err != nil {
			return fmt.Errorf("create staging dir: %w", err)
		}
	}

	gin.SetMode(cfg.Mode)

	rasterizer := poppler.NewRasterizer()
	rasterizer.Binary = binary
	rasterizer.WorkDir = cfg.StagingDir
	if cfg.Rasterizer.DPI > 0 {
		rasterizer.DPI = cfg.Rasterizer.DPI
	}
	if cfg.Rasterizer.Timeout > 0 {
		rasterizer.Timeout = cfg.Rasterizer.Timeout
	}
	recognizer := tesseract.NewRecognizer(cfg.Recognizer.Languages...)

	return New(cfg, logger, rasterizer, recognizer).Start(ctx)
}
