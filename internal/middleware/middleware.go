package middleware

import (
	"strings"
	"time"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Context keys set by the middleware in this package
const (
	ClientIDKey  = "clientID"
	RequestIDKey = "RequestID"
	UserEmailKey = "userEmail"
)

// ClientIDHeader identifies the browser that owns sessions, beneficiaries and the gateway token
const ClientIDHeader = "X-Client-ID"

// CORSMiddleware is a middleware for CORS. Only a configured origin is echoed back;
// a "*" entry allows any origin.
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	allowed := make(map[string]bool, len(cfg.Server.AllowedHosts))
	for _, h := range cfg.Server.AllowedHosts {
		allowed[strings.TrimRight(strings.TrimSpace(h), "/")] = true
	}

	return func(c *gin.Context) {
		c.Writer.Header().Add("Vary", "Origin")
		if origin := c.GetHeader("Origin"); origin != "" && (allowed[origin] || allowed["*"]) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Client-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Client-ID, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// RequestIDMiddleware is a middleware for adding a request ID to the context
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// ClientIDMiddleware reads the client id header, minting and echoing one when it is missing
func ClientIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := strings.TrimSpace(c.GetHeader(ClientIDHeader))
		if clientID == "" {
			clientID = uuid.NewString()
		}
		c.Set(ClientIDKey, clientID)
		c.Writer.Header().Set(ClientIDHeader, clientID)
		c.Next()
	}
}

// LoggerMiddleware is a middleware for logging requests
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		attrs := []interface{}{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", latency,
			"requestId", c.GetString(RequestIDKey),
			"clientId", c.GetString(ClientIDKey),
		}
		switch {
		case c.Writer.Status() >= 500:
			slog.Error("Request failed", append(attrs, "errors", c.Errors.String())...)
		case c.Writer.Status() >= 400:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request handled", attrs...)
		}
	}
}
