package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/recruitdesk/internal/api/handlers"
	"github.com/yoockh/recruitdesk/internal/cache"
	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/jobad"
	"github.com/yoockh/recruitdesk/internal/logger"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories/memory"
	"github.com/yoockh/recruitdesk/internal/services"
	"github.com/yoockh/recruitdesk/internal/tasks"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type testApp struct {
	router *gin.Engine
	cvs    services.CVService
}

func newTestApp(t *testing.T, opts services.Options) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := logger.Discard()
	repos := memory.NewStore().Set()
	hub := events.NewHub()
	cl := utils.NewClassifier(utils.LocaleFR, l)

	group := tasks.NewGroup(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = group.Close(ctx)
	})
	processor := &services.CVProcessor{CVs: repos.CVs, Bus: hub, Delay: time.Hour, Logger: l}

	projects := services.NewProjectService(repos.Projects, repos.Profiles, services.DefaultProgress, opts)
	profiles := services.NewProfileService(repos.Profiles, repos.Projects, opts)
	publications := services.NewPublicationService(repos.Publications, repos.Profiles, opts)
	cvs := services.NewCVService(repos.CVs, repos.Profiles, services.NewLocalDispatcher(group, processor), hub, l, opts)
	jobAds := services.NewJobAdService(repos.Profiles, jobad.NewGenerator("fr"), cache.NewMemoryCache(), l, opts)
	dashboard := services.NewDashboardService(repos, services.DefaultProgress, "fr", opts)

	r := NewRouter(l, Deps{
		Project:     handlers.NewProjectHandler(projects, profiles, cl),
		Profile:     handlers.NewProfileHandler(profiles, publications, jobAds, cl),
		Publication: handlers.NewPublicationHandler(publications, cl),
		CV:          handlers.NewCVHandler(cvs, cl),
		Dashboard:   handlers.NewDashboardHandler(dashboard, cl),
		WS:          handlers.NewWSHandler(cvs, hub, cl, l),
	})
	return &testApp{router: r, cvs: cvs}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestPing(t *testing.T) {
	a := newTestApp(t, services.Options{})
	w := a.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestProjects_CreateGetList(t *testing.T) {
	a := newTestApp(t, services.Options{})

	w := a.do(t, http.MethodPost, "/projects", gin.H{"title": "Recrutement Data", "managers": []string{"Alice"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Project](t, w)
	assert.Equal(t, models.ProjectOpen, created.Status)
	assert.Equal(t, "Alice", created.Manager)

	w = a.do(t, http.MethodGet, "/projects/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Recrutement Data", decode[models.Project](t, w).Title)

	w = a.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Project](t, w), 1)
}

func TestProjects_Errors(t *testing.T) {
	a := newTestApp(t, services.Options{})

	w := a.do(t, http.MethodGet, "/projects/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	apiErr := decode[handlers.APIError](t, w)
	assert.Equal(t, utils.CodeNotFound, apiErr.Code)
	assert.Equal(t, "La ressource demandée n'a pas été trouvée.", apiErr.Display)

	w = a.do(t, http.MethodGet, "/projects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/projects", gin.H{"description": "no title"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	apiErr = decode[handlers.APIError](t, w)
	assert.Equal(t, utils.CodeValidation, apiErr.Code)
	require.NotEmpty(t, apiErr.Fields)
	assert.Equal(t, "title", apiErr.Fields[0].Field)
	assert.Equal(t, "title failed on 'required'", apiErr.Display)

	req := httptest.NewRequest(http.MethodPost, "/projects", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfiles_ProgressAndJobAd(t *testing.T) {
	a := newTestApp(t, services.Options{StrictReferences: true})

	w := a.do(t, http.MethodPost, "/profiles", gin.H{"projectId": 1, "title": "Dev"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Equal(t, http.StatusCreated, a.do(t, http.MethodPost, "/projects", gin.H{"title": "P"}).Code)
	for _, title := range []string{"Développeur Go", "SRE"} {
		w = a.do(t, http.MethodPost, "/profiles", gin.H{"projectId": 1, "title": title, "technicalSkills": "Go, Kubernetes"})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = a.do(t, http.MethodGet, "/projects/1/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Profile](t, w), 2)

	w = a.do(t, http.MethodGet, "/projects/1/progress", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 40, decode[services.ProjectProgress](t, w).Percent)

	w = a.do(t, http.MethodGet, "/profiles/1/job-ad", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ad := decode[services.JobAd](t, w)
	assert.True(t, strings.HasPrefix(ad.Content, "# Développeur Go"))
	assert.Contains(t, ad.Content, "- Kubernetes")

	w = a.do(t, http.MethodPost, "/profiles/1/job-ad/regenerate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode[services.JobAd](t, w).Content, "[Contenu régénéré le ")

	w = a.do(t, http.MethodGet, "/profiles/9/job-ad", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublications_PublishFlow(t *testing.T) {
	a := newTestApp(t, services.Options{OneWayPublish: true})

	w := a.do(t, http.MethodPost, "/publications", gin.H{"profileId": 1, "title": "Annonce"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.PublicationDraft, decode[models.Publication](t, w).Status)

	w = a.do(t, http.MethodPost, "/publications/1/publish", gin.H{"platform": "twitter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/publications/1/publish", gin.H{"platform": "linkedin"})
	require.Equal(t, http.StatusOK, w.Code)
	pub := decode[models.Publication](t, w)
	assert.Equal(t, models.PublicationPublished, pub.Status)
	assert.NotNil(t, pub.PublishDate)

	w = a.do(t, http.MethodPost, "/publications/1/publish", gin.H{"platform": "indeed"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodPost, "/publications/5/publish", gin.H{"platform": "indeed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/publications?status=published", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Publication](t, w), 1)

	w = a.do(t, http.MethodGet, "/publications?status=draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]models.Publication](t, w))

	w = a.do(t, http.MethodGet, "/profiles/1/publications", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Publication](t, w), 1)
}

func TestCVs_Lifecycle(t *testing.T) {
	a := newTestApp(t, services.Options{})

	w := a.do(t, http.MethodPost, "/cvs", gin.H{"file": gin.H{"name": "alice.pdf", "size": 1024, "type": "application/pdf"}})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	cv := decode[models.CV](t, w)
	assert.Equal(t, models.CVImported, cv.Status)

	w = a.do(t, http.MethodPost, "/cvs", gin.H{"source": gin.H{"kind": "linkedin", "url": "https://example.com"}})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(t, http.MethodPost, "/cvs/bulk", []gin.H{
		{"file": gin.H{"name": "b.pdf"}},
		{"source": gin.H{"kind": "linkedin", "url": "https://www.linkedin.com/in/bob"}},
	})
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	assert.Len(t, decode[[]models.CV](t, w), 2)

	w = a.do(t, http.MethodPost, "/cvs/1/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analyzed := decode[models.CV](t, w)
	assert.Equal(t, models.CVAnalyzed, analyzed.Status)
	assert.Equal(t, 85, analyzed.Analysis.Score)

	w = a.do(t, http.MethodPut, "/cvs/1/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CVCompleted, decode[models.CV](t, w).Status)

	w = a.do(t, http.MethodPut, "/cvs/1/status", gin.H{"status": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	a.do(t, http.MethodPost, "/cvs/1/matches", gin.H{"profileId": 3})
	w = a.do(t, http.MethodPost, "/cvs/1/matches", gin.H{"profileId": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, decode[models.CV](t, w).MatchedProfiles)

	w = a.do(t, http.MethodDelete, "/cvs/2/processing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["cancelled"])

	w = a.do(t, http.MethodGet, "/cvs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.CV](t, w), 3)

	w = a.do(t, http.MethodGet, "/cvs/40", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDashboardAndMetrics(t *testing.T) {
	a := newTestApp(t, services.Options{})

	a.do(t, http.MethodPost, "/projects", gin.H{"title": "P"})
	a.do(t, http.MethodPost, "/profiles", gin.H{"projectId": 1, "title": "Dev"})

	w := a.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[services.Dashboard](t, w)
	assert.Equal(t, 1, d.Totals.Projects)
	assert.Equal(t, 1, d.Totals.Profiles)
	require.Len(t, d.RecentProjects, 1)
	assert.Equal(t, 20, d.RecentProjects[0].Progress)
	assert.Equal(t, "À l'instant", d.RecentProjects[0].CreatedAgo)

	w = a.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recruitdesk_http_requests_total")
}

func TestWS_CVStatusStream(t *testing.T) {
	a := newTestApp(t, services.Options{})
	srv := httptest.NewServer(a.router)
	defer srv.Close()

	cv, err := a.cvs.Import(context.Background(), models.ImportCVInput{File: &models.CVFileInput{Name: "a.pdf"}})
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/cvs/1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var first events.StatusEvent
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, cv.ID, first.CVID)
	assert.NotEqual(t, models.CVAnalyzed, first.Status)

	_, err = a.cvs.Analyze(context.Background(), cv.ID)
	require.NoError(t, err)

	// the background job may still report processing before the analysis lands
	for {
		var next events.StatusEvent
		require.NoError(t, conn.ReadJSON(&next))
		if next.Status == models.CVAnalyzed {
			break
		}
		assert.Equal(t, models.CVProcessing, next.Status)
	}

	resp, err := http.Get(srv.URL + "/ws/cvs/77")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
