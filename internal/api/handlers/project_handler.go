package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type ProjectHandler struct {
	errorWriter
	projects services.ProjectService
	profiles services.ProfileService
}

func NewProjectHandler(projects services.ProjectService, profiles services.ProfileService, cl *utils.Classifier) *ProjectHandler {
	return &ProjectHandler{errorWriter: errorWriter{cl}, projects: projects, profiles: profiles}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var in models.CreateProjectInput
	if !h.bindJSON(c, "ProjectHandler.Create", &in) {
		return
	}
	p, err := h.projects.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProjectHandler) List(c *gin.Context) {
	rows, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	const op = "ProjectHandler.Get"

	id, ok := h.pathID(c, op, "id")
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		h.notFound(c, op, "project")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProjectHandler) Profiles(c *gin.Context) {
	id, ok := h.pathID(c, "ProjectHandler.Profiles", "id")
	if !ok {
		return
	}
	rows, err := h.profiles.ListByProject(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ProjectHandler) Progress(c *gin.Context) {
	id, ok := h.pathID(c, "ProjectHandler.Progress", "id")
	if !ok {
		return
	}
	p, err := h.projects.Progress(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
