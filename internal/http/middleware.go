package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/domain"
	dlog "github.com/tazhibayda/devconnector/internal/log"
	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/security"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	requestIDKey = "X-Request-ID"
	identityKey  = "identity"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDKey)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDKey, id)
		c.Next()
	}
}

// Timeout bounds every request by d through its context.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.InFlight.Inc()
		start := time.Now()
		c.Next()
		metrics.InFlight.Dec()

		route := routeOf(c)
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dlog.WithDD(c.Request.Context(), base).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("route", routeOf(c)),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// ErrorMiddleware renders the last error attached by a handler or middleware.
// Server errors are logged with their cause and answered with a bare text body.
func ErrorMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		e := apperror.From(c.Errors.Last().Err)
		switch e.Kind {
		case apperror.KindValidation, apperror.KindConflict:
			c.JSON(e.Status(), gin.H{"errors": e.Fields})
		case apperror.KindNotFound, apperror.KindAuth, apperror.KindRateLimit:
			c.JSON(e.Status(), gin.H{"msg": e.Msg})
		default:
			dlog.WithDD(c.Request.Context(), base).Error("request failed",
				zap.String("op", e.Msg),
				zap.String("route", routeOf(c)),
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(e.Err),
			)
			c.String(http.StatusInternalServerError, "Server error")
		}
	}
}

// AuthJWT verifies the bearer token and stores the caller's identity in the context.
func AuthJWT(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			_ = c.Error(apperror.Auth("No token, authorization denied"))
			c.Abort()
			return
		}
		tok := strings.TrimSpace(h[len("Bearer "):])
		claims, err := security.ParseAccess(secret, tok)
		if err != nil {
			_ = c.Error(apperror.Auth("Token is not valid"))
			c.Abort()
			return
		}
		uid, err := primitive.ObjectIDFromHex(claims.User.ID)
		if err != nil {
			_ = c.Error(apperror.Auth("Token is not valid"))
			c.Abort()
			return
		}
		c.Set(identityKey, domain.Identity{UserID: uid})
		c.Next()
	}
}

// withIdentity hands the identity verified by AuthJWT to fn as a parameter.
func withIdentity(fn func(c *gin.Context, id domain.Identity)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := c.Get(identityKey)
		ident, valid := id.(domain.Identity)
		if !ok || !valid {
			_ = c.Error(apperror.Auth("No token, authorization denied"))
			c.Abort()
			return
		}
		fn(c, ident)
	}
}
