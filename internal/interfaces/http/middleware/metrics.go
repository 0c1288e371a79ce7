package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder records request outcomes
type HTTPRecorder interface {
	ObserveHTTP(ctx context.Context, method, route string, status int, duration time.Duration)
}

// HTTPMetrics records the duration and status of every request.
// Routes are labelled by pattern to keep cardinality bounded. A nil recorder disables the middleware.
func HTTPMetrics(recorder HTTPRecorder) gin.HandlerFunc {
	if recorder == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		recorder.ObserveHTTP(c.Request.Context(), c.Request.Method, getRoutePattern(c), c.Writer.Status(), time.Since(start))
	}
}

// getRoutePattern returns the matched route (e.g. "/api/v1/reports/:family") instead of the raw path
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
