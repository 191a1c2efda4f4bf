package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type CVHandler struct {
	errorWriter
	cvs services.CVService
}

func NewCVHandler(cvs services.CVService, cl *utils.Classifier) *CVHandler {
	return &CVHandler{errorWriter: errorWriter{cl}, cvs: cvs}
}

type statusRequest struct {
	Status string `json:"status"`
}

type matchRequest struct {
	ProfileID int64 `json:"profileId"`
}

func (h *CVHandler) Import(c *gin.Context) {
	var in models.ImportCVInput
	if !h.bindJSON(c, "CVHandler.Import", &in) {
		return
	}
	cv, err := h.cvs.Import(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, cv)
}

func (h *CVHandler) ImportMany(c *gin.Context) {
	var ins []models.ImportCVInput
	if !h.bindJSON(c, "CVHandler.ImportMany", &ins) {
		return
	}
	rows, err := h.cvs.ImportMany(c.Request.Context(), ins)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, rows)
}

func (h *CVHandler) List(c *gin.Context) {
	rows, err := h.cvs.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *CVHandler) Get(c *gin.Context) {
	const op = "CVHandler.Get"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	cv, err := h.cvs.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if cv == nil {
		h.notFound(c, op, "cv")
		return
	}
	c.JSON(http.StatusOK, cv)
}

func (h *CVHandler) Analyze(c *gin.Context) {
	id, ok := h.pathID(c, "CVHandler.Analyze", "id")
	if !ok {
		return
	}
	cv, err := h.cvs.Analyze(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cv)
}

func (h *CVHandler) UpdateStatus(c *gin.Context) {
	const op = "CVHandler.UpdateStatus"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	var req statusRequest
	if !h.bindJSON(c, op, &req) {
		return
	}
	cv, err := h.cvs.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cv)
}

func (h *CVHandler) Match(c *gin.Context) {
	const op = "CVHandler.Match"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	var req matchRequest
	if !h.bindJSON(c, op, &req) {
		return
	}
	cv, err := h.cvs.Match(c.Request.Context(), id, req.ProfileID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cv)
}

func (h *CVHandler) CancelProcessing(c *gin.Context) {
	id, ok := h.pathID(c, "CVHandler.CancelProcessing", "id")
	if !ok {
		return
	}
	cancelled, err := h.cvs.CancelProcessing(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "cancelled": cancelled})
}
