package httpapi

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tbxark/checkoutbuilder/store"
)

const (
	headerRequestID = "X-Request-Id"
	headerTenant    = "X-Tenant-ID"
	requestIDKey    = "request_id"
)

// requestID reuses an incoming X-Request-Id or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zapRequestID(c),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", max(c.Writer.Size(), 0)),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// tenant scopes the request context to the X-Tenant-ID header.
func tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(headerTenant); id != "" {
			c.Request = c.Request.WithContext(store.WithTenant(c.Request.Context(), id))
		}
		c.Next()
	}
}

func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func zapRequestID(c *gin.Context) zap.Field {
	return zap.String("request_id", c.GetString(requestIDKey))
}
