package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	AllowOrigin  = "*"
	AllowMethods = "POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

// WithCORS lets any origin read responses.
// Returns a Gin middleware function.
func WithCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", AllowOrigin)
		c.Next()
	}
}

// Preflight writes the headers answering a CORS preflight request.
func Preflight(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", AllowOrigin)
	c.Header("Access-Control-Allow-Methods", AllowMethods)
	c.Header("Access-Control-Allow-Headers", AllowHeaders)
}
