package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/recruitdesk/internal/events"
	"github.com/yoockh/recruitdesk/internal/logger"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/repositories/memory"
)

func collect(t *testing.T, ch <-chan events.StatusEvent, n int) []models.CVStatus {
	t.Helper()
	var out []models.CVStatus
	for len(out) < n {
		select {
		case ev := <-ch:
			out = append(out, ev.Status)
		case <-time.After(2 * time.Second):
			t.Fatalf("got %v, want %d events", out, n)
		}
	}
	return out
}

func TestPipeline_ImportRunsToAnalyzed(t *testing.T) {
	e := newEnv(t, Options{}, 10*time.Millisecond)
	ctx := context.Background()

	// first CV of a fresh store gets id 1
	ch, stop, err := e.hub.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer stop()

	cv, err := e.cvs.Import(ctx, fileInput("a.pdf"))
	require.NoError(t, err)
	require.Equal(t, int64(1), cv.ID)

	assert.Equal(t,
		[]models.CVStatus{models.CVImported, models.CVProcessing, models.CVAnalyzed},
		collect(t, ch, 3))

	require.NoError(t, e.dispatcher.Wait(ctx, cv.ID))
	got, err := e.cvs.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CVAnalyzed, got.Status)
	require.NotNil(t, got.Analysis)
	assert.Equal(t, 85, got.Analysis.Score)
}

func TestPipeline_CancelStopsWithoutAnalysis(t *testing.T) {
	e := newEnv(t, Options{}, time.Minute)
	ctx := context.Background()

	cv, err := e.cvs.Import(ctx, fileInput("a.pdf"))
	require.NoError(t, err)
	task, running := e.group.Get(JobKey(cv.ID))
	require.True(t, running)

	ok, err := e.cvs.CancelProcessing(ctx, cv.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, task.Wait(waitCtx), context.Canceled)

	got, err := e.cvs.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Analysis)
	assert.NotEqual(t, models.CVAnalyzed, got.Status)

	ok, err = e.cvs.CancelProcessing(ctx, cv.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPipeline_RecruiterStatusWinsOverAnalysis(t *testing.T) {
	e := newEnv(t, Options{}, 200*time.Millisecond)
	ctx := context.Background()

	cv, err := e.cvs.Import(ctx, fileInput("a.pdf"))
	require.NoError(t, err)
	task, running := e.group.Get(JobKey(cv.ID))
	require.True(t, running)

	require.Eventually(t, func() bool {
		got, err := e.cvs.Get(ctx, cv.ID)
		return err == nil && got.Status == models.CVProcessing
	}, 2*time.Second, 5*time.Millisecond)

	_, err = e.cvs.UpdateStatus(ctx, cv.ID, string(models.CVCompleted))
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	assert.ErrorIs(t, task.Wait(waitCtx), repositories.ErrStatusChanged)

	got, err := e.cvs.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CVCompleted, got.Status)
	assert.Nil(t, got.Analysis)
}

func TestPipeline_ShutdownCancelsJobs(t *testing.T) {
	e := newEnv(t, Options{}, time.Minute)
	ctx := context.Background()

	cv, err := e.cvs.Import(ctx, fileInput("a.pdf"))
	require.NoError(t, err)

	closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	require.NoError(t, e.group.Close(closeCtx))

	got, err := e.cvs.Get(ctx, cv.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Analysis)

	// imports after shutdown are stored but no longer processed
	late, err := e.cvs.Import(ctx, fileInput("b.pdf"))
	require.NoError(t, err)
	assert.Equal(t, models.CVImported, late.Status)
}

func TestProcessor_MissingCV(t *testing.T) {
	p := &CVProcessor{CVs: memory.NewStore().Set().CVs, Logger: logger.Discard()}

	err := p.Process(context.Background(), 42)
	require.Error(t, err)
	assert.False(t, errors.Is(err, context.Canceled))
}
