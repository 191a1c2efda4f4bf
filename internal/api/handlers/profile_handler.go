package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type ProfileHandler struct {
	errorWriter
	profiles     services.ProfileService
	publications services.PublicationService
	jobAds       services.JobAdService
}

func NewProfileHandler(profiles services.ProfileService, publications services.PublicationService, jobAds services.JobAdService, cl *utils.Classifier) *ProfileHandler {
	return &ProfileHandler{errorWriter: errorWriter{cl}, profiles: profiles, publications: publications, jobAds: jobAds}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var in models.CreateProfileInput
	if !h.bindJSON(c, "ProfileHandler.Create", &in) {
		return
	}
	p, err := h.profiles.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProfileHandler) List(c *gin.Context) {
	rows, err := h.profiles.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	const op = "ProfileHandler.Get"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		h.notFound(c, op, "profile")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Publications(c *gin.Context) {
	id, ok := h.pathID(c, "ProfileHandler.Publications", "id")
	if !ok {
		return
	}
	rows, err := h.publications.ListByProfile(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProfileHandler) JobAd(c *gin.Context) {
	id, ok := h.pathID(c, "ProfileHandler.JobAd", "id")
	if !ok {
		return
	}
	ad, err := h.jobAds.Draft(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}

func (h *ProfileHandler) RegenerateJobAd(c *gin.Context) {
	id, ok := h.pathID(c, "ProfileHandler.RegenerateJobAd", "id")
	if !ok {
		return
	}
	ad, err := h.jobAds.Regenerate(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ad)
}
