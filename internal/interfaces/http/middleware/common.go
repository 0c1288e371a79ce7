// Package middleware provides HTTP middleware for the report API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos-admin/backend/internal/infrastructure/logger"
)

// MaxRequestIDLength caps client supplied request ids
const MaxRequestIDLength = 128

// RequestID propagates the caller's X-Request-ID or assigns a new one.
// The id is stored under "request_id" and echoed in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(logger.RequestIDHeader)
		if len(requestID) > MaxRequestIDLength {
			requestID = requestID[:MaxRequestIDLength]
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set(logger.RequestIDHeader, requestID)
		c.Next()
	}
}

// getRequestID returns the id assigned by RequestID
func getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}
