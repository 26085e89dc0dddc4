package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/domain"
	"github.com/tazhibayda/devconnector/internal/metrics"
	"github.com/tazhibayda/devconnector/internal/queue"
	"github.com/tazhibayda/devconnector/internal/validation"
)

const msgNoProfile = "There is no profile for this user"

// profileReq lists status and skills first: their errors are reported in that order.
type profileReq struct {
	Status         string `json:"status" validate:"required" msg:"Status is required"`
	Skills         string `json:"skills" validate:"skills" msg:"Skills is required"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	GitHubUsername string `json:"githubusername"`
	YouTube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

func (r profileReq) input() domain.ProfileInput {
	return domain.ProfileInput{
		Company:        r.Company,
		Website:        r.Website,
		Location:       r.Location,
		Bio:            r.Bio,
		Status:         r.Status,
		GitHubUsername: r.GitHubUsername,
		Skills:         r.Skills,
		YouTube:        r.YouTube,
		Twitter:        r.Twitter,
		Facebook:       r.Facebook,
		LinkedIn:       r.LinkedIn,
		Instagram:      r.Instagram,
	}
}

// GetMyProfile godoc
// @Summary Current user's profile
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.ProfileView
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/profile/me [get]
func (h *Handler) GetMyProfile(c *gin.Context, id domain.Identity) {
	p, err := h.Profiles.FindProfileByUser(c.Request.Context(), id.UserID)
	if err != nil {
		_ = c.Error(apperror.Server("find profile", err))
		return
	}
	if p == nil {
		_ = c.Error(apperror.NotFound(msgNoProfile))
		return
	}
	c.JSON(http.StatusOK, p)
}

// SaveProfile godoc
// @Summary Create or update the current user's profile
// @Description Only supplied fields are written; everything else keeps its stored value.
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param payload body profileReq true "status and skills are required"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /api/profile [post]
func (h *Handler) SaveProfile(c *gin.Context, id domain.Identity) {
	var in profileReq
	if err := bindJSON(c, &in); err != nil {
		_ = c.Error(err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		_ = c.Error(err)
		return
	}

	p, created, err := h.Profiles.UpsertProfile(c.Request.Context(), id.UserID, in.input().Fields())
	if err != nil {
		_ = c.Error(apperror.Server("upsert profile", err))
		return
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.ProfilesSaved.WithLabelValues(outcome).Inc()
	h.publish(c, queue.KeyProfileSaved, queue.ProfileSaved{UserID: id.UserID.Hex(), Created: created})

	c.JSON(http.StatusOK, p)
}
