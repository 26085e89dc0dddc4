package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/domain"
	dlog "github.com/tazhibayda/devconnector/internal/log"
	"github.com/tazhibayda/devconnector/internal/queue"
	"github.com/tazhibayda/devconnector/internal/repo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreateUser(ctx context.Context, u *domain.User) error
}

type ProfileStore interface {
	FindProfileByUser(ctx context.Context, userID primitive.ObjectID) (*domain.ProfileView, error)
	UpsertProfile(ctx context.Context, userID primitive.ObjectID, f domain.ProfileFields) (*domain.Profile, bool, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Users     UserStore
	Profiles  ProfileStore
	DB        Pinger
	JWTSecret string
	TokenTTL  time.Duration
	Events    queue.Publisher
	Log       *zap.Logger
}

func NewHandler(store *repo.Store, jwtSecret string, tokenTTL time.Duration, pub queue.Publisher, l *zap.Logger) *Handler {
	if pub == nil {
		pub = queue.NewNoop()
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Handler{
		Users:     store,
		Profiles:  store,
		DB:        store,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		Events:    pub,
		Log:       l,
	}
}

// Healthz godoc
// @Summary Liveness and database reachability
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindJSON decodes the request body into dst. An empty body decodes as {}.
func bindJSON(c *gin.Context, dst any) error {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperror.Validation([]apperror.FieldError{{Msg: "Invalid request body"}})
}

// publish sends an event in the background. Delivery problems are logged and
// never reach the client.
func (h *Handler) publish(c *gin.Context, key string, event any) {
	ctx := context.WithoutCancel(c.Request.Context())
	reqID := c.GetString(requestIDKey)
	l := dlog.WithDD(ctx, h.Log, zap.String("request_id", reqID), zap.String("key", key))
	go func() {
		if err := h.Events.Publish(ctx, key, event, reqID); err != nil {
			l.Warn("publish event failed", zap.Error(err))
		}
	}()
}
