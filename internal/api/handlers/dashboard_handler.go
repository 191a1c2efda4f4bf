package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type DashboardHandler struct {
	errorWriter
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService, cl *utils.Classifier) *DashboardHandler {
	return &DashboardHandler{errorWriter: errorWriter{cl}, dashboard: dashboard}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	d, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
