package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HeaderUsername carries the authenticated username set by the upstream gateway.
const HeaderUsername = "X-Username"

const actorKey = "actor"

func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(actorKey, strings.TrimSpace(c.GetHeader(HeaderUsername)))
		c.Next()
	}
}

// actor returns the acting username, empty for anonymous calls.
func actor(c *gin.Context) string {
	return c.GetString(actorKey)
}

func LoggingMiddleware(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"actor":    actor(c),
		})
		if len(c.Errors) > 0 || c.Writer.Status() >= 500 {
			entry.Error("Request failed")
			return
		}
		entry.Info("Request completed")
	}
}
