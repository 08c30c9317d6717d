package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/go-taken/ocr-api/internal/logging"
	"github.com/go-taken/ocr-api/internal/ocr"
	"github.com/go-taken/ocr-api/internal/staging"
	"github.com/go-taken/ocr-api/internal/upload"
)

// Pipeline defines the OCR dependency.
type Pipeline interface {
	Run(ctx context.Context, pdfPath string) (*ocr.Result, error)
}

// OCRService orchestrates OCR processing.
type OCRService struct {
	pipeline Pipeline
	stager   *staging.Stager
	logger   logrus.FieldLogger
}

// NewOCRService creates OCRService.
func NewOCRService(pipeline Pipeline, stager *staging.Stager, logger logrus.FieldLogger) *OCRService {
	return &OCRService{pipeline: pipeline, stager: stager, logger: logger}
}

// Process persists the uploaded file and runs OCR. The staged file is removed
// before Process returns, whatever the outcome.
func (s *OCRService) Process(ctx context.Context, file upload.File) (*ocr.Result, error) {
	res, err := s.stager.Stage(file.Data)
	if err != nil {
		return nil, fmt.Errorf("persist upload (%s): %w", file.Filename, err)
	}
	log := logging.FromContext(ctx, s.logger).WithFields(logrus.Fields{
		"filename": file.Filename,
		"path":     res.Path(),
	})
	log.WithField("size", len(file.Data)).Debug("wrote upload to staged file")

	defer func() {
		if err := res.Release(); err != nil {
			log.WithError(err).Warn("failed to delete staged file")
			return
		}
		log.Debug("staged file deleted")
	}()

	return s.pipeline.Run(ctx, res.Path())
}
