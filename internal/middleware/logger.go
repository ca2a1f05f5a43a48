package middleware

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware writes one plain-text access line per request to stdout.
// Application logs go through internal/logger instead.
func CustomLoggerMiddleware() gin.HandlerFunc {
	return AccessLogTo(os.Stdout)
}

// AccessLogTo is CustomLoggerMiddleware with an explicit sink.
func AccessLogTo(w io.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		requestID := GetRequestID(c)
		if requestID == "" {
			requestID = "-"
		}

		fmt.Fprintf(w, "[API] %s | %s | %d | %s | %s | Request: %s\n",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start).String(),
			c.ClientIP(),
			requestID,
		)
	}
}
