//go:build integration

package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/recruitdesk/config"
	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
)

// Run with MONGO_TEST_URI set, e.g. mongodb://localhost:27017, and -tags integration.
func newIntegrationRepo(t *testing.T) repositories.CVRepository {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := config.InitMongo(ctx, uri)
	require.NoError(t, err)
	db := client.Database("recruitdesk_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return NewCVRepo(db)
}

func TestIntegration_CVIDsIncrease(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()

	var last int64
	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		cv := &models.CV{FileName: name, Status: models.CVImported}
		require.NoError(t, repo.Insert(ctx, cv))
		assert.Greater(t, cv.ID, last)
		last = cv.ID
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a.pdf", all[0].FileName)
	assert.Equal(t, []int64{}, all[0].MatchedProfiles)
}

func TestIntegration_AddMatchIsSetInsert(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	now := time.Now()

	cv := &models.CV{FileName: "a.pdf", Status: models.CVImported}
	require.NoError(t, repo.Insert(ctx, cv))

	for _, id := range []int64{5, 5, 6, 5} {
		_, err := repo.AddMatch(ctx, cv.ID, id, now)
		require.NoError(t, err)
	}
	got, err := repo.GetByID(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6}, got.MatchedProfiles)

	_, err = repo.AddMatch(ctx, 999, 5, now)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestIntegration_FinishProcessingKeepsRecruiterStatus(t *testing.T) {
	repo := newIntegrationRepo(t)
	ctx := context.Background()
	now := time.Now()

	cv := &models.CV{FileName: "a.pdf", Status: models.CVProcessing}
	require.NoError(t, repo.Insert(ctx, cv))
	_, err := repo.SetStatus(ctx, cv.ID, models.CVCompleted, now)
	require.NoError(t, err)

	_, err = repo.FinishProcessing(ctx, cv.ID, models.DefaultAnalysis(), now)
	assert.ErrorIs(t, err, repositories.ErrStatusChanged)

	_, err = repo.FinishProcessing(ctx, 999, models.DefaultAnalysis(), now)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	got, err := repo.GetByID(ctx, cv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CVCompleted, got.Status)
	assert.Nil(t, got.Analysis)
}
