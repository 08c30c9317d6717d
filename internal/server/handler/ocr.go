package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/go-taken/ocr-api/internal/ocr"
	"github.com/go-taken/ocr-api/internal/server/middleware"
	"github.com/go-taken/ocr-api/internal/upload"
)

const jsonContentType = "application/json"

// ErrUploadTooLarge reports a declared Content-Length above the configured limit.
var ErrUploadTooLarge = errors.New("upload exceeds size limit")

// OCRService defines the behavior consumed by the handler.
type OCRService interface {
	Process(ctx context.Context, file upload.File) (*ocr.Result, error)
}

// OCRHandler manages OCR HTTP interactions.
type OCRHandler struct {
	service        OCRService
	maxUploadBytes int64
}

// NewOCRHandler builds the handler. A non-positive maxUploadBytes disables the
// size limit.
func NewOCRHandler(svc OCRService, maxUploadBytes int64) *OCRHandler {
	return &OCRHandler{service: svc, maxUploadBytes: maxUploadBytes}
}

// HandleHealth answers liveness probes.
func (h *OCRHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "OCR API is running",
	})
}

// HandleOptions answers CORS preflight requests with an empty body.
func (h *OCRHandler) HandleOptions(c *gin.Context) {
	middleware.Preflight(c)
	c.Header("Content-Type", jsonContentType)
	c.Status(http.StatusOK)
}

// HandleMethodNotAllowed rejects methods other than GET, POST and OPTIONS.
func (h *OCRHandler) HandleMethodNotAllowed(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{
		"error": "Method not allowed",
	})
}

// HandleOCR processes OCR requests for PDF files.
func (h *OCRHandler) HandleOCR(c *gin.Context) {
	log := middleware.Logger(c)
	contentType := c.GetHeader("Content-Type")
	log.WithFields(logrus.Fields{
		"content_length": c.Request.ContentLength,
		"content_type":   contentType,
	}).Debug("received upload")

	body, err := h.readBody(c.Request)
	if err != nil {
		h.fail(c, log, err)
		return
	}

	file, err := upload.Extract(body, contentType)
	if err != nil {
		h.fail(c, log, err)
		return
	}
	log.WithFields(logrus.Fields{
		"filename": file.Filename,
		"size":     len(file.Data),
	}).Debug("found file")

	result, err := h.service.Process(c.Request.Context(), file)
	if err != nil {
		h.fail(c, log, err)
		return
	}

	log.WithField("pages", result.TotalPages).Debug("returning success response")
	c.JSON(http.StatusOK, result)
}

// readBody reads exactly Content-Length bytes. An unknown or zero length
// counts as an empty upload.
func (h *OCRHandler) readBody(r *http.Request) ([]byte, error) {
	n := r.ContentLength
	if n <= 0 {
		return nil, upload.ErrEmptyUpload
	}
	if h.maxUploadBytes > 0 && n > h.maxUploadBytes {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrUploadTooLarge, n, h.maxUploadBytes)
	}
	// grow with the bytes that actually arrive, not the declared length
	var buf bytes.Buffer
	read, err := buf.ReadFrom(io.LimitReader(r.Body, n))
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	if read != n {
		return nil, fmt.Errorf("read request body: %w", io.ErrUnexpectedEOF)
	}
	return buf.Bytes(), nil
}

func (h *OCRHandler) fail(c *gin.Context, log logrus.FieldLogger, err error) {
	status, message := errorResponse(err)
	entry := log.WithError(err).WithField("status", status)
	var recErr *ocr.RecognitionError
	if errors.As(err, &recErr) {
		entry = entry.WithField("page", recErr.Page)
	}
	if status >= http.StatusInternalServerError {
		entry.Error("ocr request failed")
	} else {
		entry.Info("ocr request rejected")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// errorResponse maps a pipeline error to its status code and wire message.
func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, upload.ErrEmptyUpload):
		return http.StatusBadRequest, "No file uploaded"
	case errors.Is(err, upload.ErrNoFileFound):
		return http.StatusBadRequest, "No file found in request"
	case errors.Is(err, upload.ErrMalformedMultipart):
		return http.StatusBadRequest, "Malformed multipart request"
	case errors.Is(err, ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge, "File too large"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
