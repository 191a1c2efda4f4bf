package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yoockh/recruitdesk/internal/cache"
	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/jobad"
	"github.com/yoockh/recruitdesk/internal/logger"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories/memory"
	"github.com/yoockh/recruitdesk/internal/tasks"
	"github.com/yoockh/recruitdesk/internal/utils"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type env struct {
	store        *memory.Store
	clock        *clock
	hub          *events.Hub
	group        *tasks.Group
	dispatcher   *LocalDispatcher
	projects     ProjectService
	profiles     ProfileService
	publications PublicationService
	cvs          CVService
	jobAds       JobAdService
	dashboard    DashboardService
}

func newEnv(t *testing.T, opts Options, delay time.Duration) *env {
	t.Helper()

	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	opts.Now = c.Now

	store := memory.NewStore()
	repos := store.Set()
	hub := events.NewHub()
	l := logger.Discard()

	group := tasks.NewGroup(context.Background())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = group.Close(ctx)
	})

	processor := &CVProcessor{CVs: repos.CVs, Bus: hub, Delay: delay, Logger: l, Now: c.Now}
	dispatcher := NewLocalDispatcher(group, processor)

	return &env{
		store:        store,
		clock:        c,
		hub:          hub,
		group:        group,
		dispatcher:   dispatcher,
		projects:     NewProjectService(repos.Projects, repos.Profiles, DefaultProgress, opts),
		profiles:     NewProfileService(repos.Profiles, repos.Projects, opts),
		publications: NewPublicationService(repos.Publications, repos.Profiles, opts),
		cvs:          NewCVService(repos.CVs, repos.Profiles, dispatcher, hub, l, opts),
		jobAds:       NewJobAdService(repos.Profiles, jobad.NewGenerator("fr"), cache.NewMemoryCache(), l, opts),
		dashboard:    NewDashboardService(repos, DefaultProgress, "fr", opts),
	}
}

func requireCode(t *testing.T, err error, code utils.Code) *utils.AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, utils.IsCode(err, code), "want %s, got %v", code, err)
	var ae *utils.AppError
	require.ErrorAs(t, err, &ae)
	return ae
}

func fileInput(name string) models.ImportCVInput {
	return models.ImportCVInput{File: &models.CVFileInput{Name: name, Size: 2048, Type: "application/pdf"}}
}

func linkedInInput(url string) models.ImportCVInput {
	return models.ImportCVInput{Source: &models.CVSourceInput{Kind: models.CVSourceLinkedIn, URL: url}}
}
