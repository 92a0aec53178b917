package httpserver

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/domain"
	identitysvc "storefront/internal/service/identity"
)

type ctxKey string

const sessionCtxKey ctxKey = "session"

const signInHint = "Please sign in to continue with checkout"

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// anonKeyMiddleware requires the public anonymous key as bearer token.
func anonKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if subtle.ConstantTimeCompare([]byte(bearerToken(c)), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized - Invalid API key"})
			return
		}
		c.Next()
	}
}

// sessionMiddleware resolves the bearer token to a session. Requests without a
// live session are sent to sign in.
func sessionMiddleware(identity identityService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortSignIn(c)
			return
		}
		sess, err := identity.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, identitysvc.ErrInvalidToken) {
				logger.Error("authenticate session", zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": internalError})
				return
			}
			abortSignIn(c)
			return
		}
		ctx := context.WithValue(c.Request.Context(), sessionCtxKey, sess)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortSignIn(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    signInHint,
		"redirect": "/signin",
	})
}

func sessionFromContext(ctx context.Context) *domain.Session {
	sess, _ := ctx.Value(sessionCtxKey).(*domain.Session)
	return sess
}
