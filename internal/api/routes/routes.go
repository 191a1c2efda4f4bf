package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/recruitdesk/internal/api/handlers"
	"github.com/yoockh/recruitdesk/internal/api/middleware"
)

type Deps struct {
	Project     *handlers.ProjectHandler
	Profile     *handlers.ProfileHandler
	Publication *handlers.PublicationHandler
	CV          *handlers.CVHandler
	Dashboard   *handlers.DashboardHandler
	WS          *handlers.WSHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Health-ish
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/dashboard", d.Dashboard.Summary)

	projects := r.Group("/projects")
	projects.POST("", d.Project.Create)
	projects.GET("", d.Project.List)
	projects.GET("/:id", d.Project.Get)
	projects.GET("/:id/profiles", d.Project.Profiles)
	projects.GET("/:id/progress", d.Project.Progress)

	profiles := r.Group("/profiles")
	profiles.POST("", d.Profile.Create)
	profiles.GET("", d.Profile.List)
	profiles.GET("/:id", d.Profile.Get)
	profiles.GET("/:id/publications", d.Profile.Publications)
	profiles.GET("/:id/job-ad", d.Profile.JobAd)
	profiles.POST("/:id/job-ad/regenerate", d.Profile.RegenerateJobAd)

	pubs := r.Group("/publications")
	pubs.POST("", d.Publication.Create)
	pubs.GET("", d.Publication.List)
	pubs.GET("/:id", d.Publication.Get)
	pubs.POST("/:id/publish", d.Publication.Publish)

	cvs := r.Group("/cvs")
	cvs.POST("", d.CV.Import)
	cvs.POST("/bulk", d.CV.ImportMany)
	cvs.GET("", d.CV.List)
	cvs.GET("/:id", d.CV.Get)
	cvs.POST("/:id/analyze", d.CV.Analyze)
	cvs.PUT("/:id/status", d.CV.UpdateStatus)
	cvs.POST("/:id/matches", d.CV.Match)
	cvs.DELETE("/:id/processing", d.CV.CancelProcessing)

	// WebSocket
	r.GET("/ws/cvs/:id", d.WS.CVStatus)
}

// NewRouter builds the engine with recovery, request logging and metrics.
func NewRouter(l *logrus.Logger, d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(l), middleware.Prometheus())
	RegisterRoutes(r, d)
	return r
}
