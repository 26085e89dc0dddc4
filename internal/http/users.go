package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/domain"
	"github.com/tazhibayda/devconnector/internal/helper"
	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/queue"
	"github.com/tazhibayda/devconnector/internal/repo"
	"github.com/tazhibayda/devconnector/internal/security"
	"github.com/tazhibayda/devconnector/internal/validation"
	"go.uber.org/zap"
)

const msgUserExists = "User already exists"

type registerReq struct {
	Name     string `json:"name" validate:"required" msg:"Name is required"`
	Email    string `json:"email" validate:"email" msg:"Please include a valid email"`
	Password string `json:"password" validate:"min=5" msg:"Please enter a password with 5 or more characters"`
}

type tokenResp struct {
	Token string `json:"token"`
}

// Register godoc
// @Summary Register user
// @Description Creates an account and returns a signed access token.
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerReq true "name, email, password"
// @Success 200 {object} tokenResp
// @Failure 400 {object} map[string]any
// @Failure 429 {object} map[string]string
// @Failure 500 {string} string "Server error"
// @Router /api/users [post]
func (h *Handler) Register(c *gin.Context) {
	var in registerReq
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	email := helper.NormalizeEmail(in.Email)

	existing, err := h.Users.FindUserByEmail(ctx, email)
	if err != nil {
		_ = c.Error(apperror.Server("find user by email", err))
		return
	}
	if existing != nil {
		_ = c.Error(apperror.Conflict(msgUserExists))
		return
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		_ = c.Error(apperror.Server("hash password", err))
		return
	}
	u := &domain.User{
		Name:     in.Name,
		Email:    email,
		Avatar:   security.GravatarURL(email, security.AvatarOptions),
		Password: hash,
	}
	if err := h.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailExists) {
			_ = c.Error(apperror.Conflict(msgUserExists))
			return
		}
		_ = c.Error(apperror.Server("create user", err))
		return
	}

	tok, err := security.MakeAccess(h.JWTSecret, u.ID.Hex(), h.TokenTTL)
	if err != nil {
		_ = c.Error(apperror.Server("sign token", err))
		return
	}

	metrics.UsersRegistered.Inc()
	h.Log.Info("user registered",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email_hash", helper.Hash8(email)),
	)
	h.publish(c, queue.KeyUserRegistered, queue.UserRegistered{UserID: u.ID.Hex(), Name: u.Name, Email: u.Email})

	c.JSON(http.StatusOK, tokenResp{Token: tok})
}
