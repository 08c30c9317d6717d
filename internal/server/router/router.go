package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/go-taken/ocr-api/internal/server/middleware"
)

// anyPath matches every request path, the service has a single endpoint.
const anyPath = "/*path"

// OCRHandler defines the interface for the OCR handler.
type OCRHandler interface {
	HandleHealth(c *gin.Context)
	HandleOptions(c *gin.Context)
	HandleOCR(c *gin.Context)
	HandleMethodNotAllowed(c *gin.Context)
}

// New wires up handlers to the Gin engine.
func New(logger logrus.FieldLogger, ocrHandler OCRHandler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.WithRequestID(),
		middleware.WithLogger(logger),
		middleware.WithRecovery(),
		middleware.WithCORS(),
	)
	r.NoMethod(ocrHandler.HandleMethodNotAllowed)

	r.GET(anyPath, ocrHandler.HandleHealth)
	r.OPTIONS(anyPath, ocrHandler.HandleOptions)
	r.POST(anyPath, ocrHandler.HandleOCR)

	return r
}
