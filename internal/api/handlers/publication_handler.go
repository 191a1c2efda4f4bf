package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type PublicationHandler struct {
	errorWriter
	publications services.PublicationService
}

func NewPublicationHandler(publications services.PublicationService, cl *utils.Classifier) *PublicationHandler {
	return &PublicationHandler{errorWriter: errorWriter{cl}, publications: publications}
}

type publishRequest struct {
	Platform models.Platform `json:"platform"`
}

func (h *PublicationHandler) Create(c *gin.Context) {
	var in models.CreatePublicationInput
	if !h.bindJSON(c, "PublicationHandler.Create", &in) {
		return
	}
	p, err := h.publications.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// List accepts ?status=all|draft|published.
func (h *PublicationHandler) List(c *gin.Context) {
	rows, err := h.publications.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *PublicationHandler) Get(c *gin.Context) {
	const op = "PublicationHandler.Get"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	p, err := h.publications.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		h.notFound(c, op, "publication")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PublicationHandler) Publish(c *gin.Context) {
	const op = "PublicationHandler.Publish"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	var req publishRequest
	if !h.bindJSON(c, op, &req) {
		return
	}
	p, err := h.publications.Publish(c.Request.Context(), id, req.Platform)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
