package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/yoockh/recruitdesk/internal/models"
)

// storedKeys lists the top-level bson keys a CV document is written with.
func storedKeys(t *testing.T) map[string]bool {
	t.Helper()
	analyzed := time.Now()
	raw, err := bson.Marshal(models.CV{
		ID:           1,
		Analysis:     models.DefaultAnalysis(),
		AnalyzedDate: &analyzed,
	})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	keys := map[string]bool{}
	for k := range doc {
		keys[k] = true
	}
	return keys
}

func TestUpdates_TargetStoredFields(t *testing.T) {
	keys := storedKeys(t)
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for name, doc := range map[string]bson.M{
		"analysis": analysisUpdate(models.DefaultAnalysis(), at),
		"status":   statusUpdate(models.CVCompleted, at),
		"match":    matchUpdate(3, at),
	} {
		for op, fields := range doc {
			for field := range fields.(bson.M) {
				assert.True(t, keys[field], "%s: %s targets unknown field %q", name, op, field)
			}
		}
	}
}

func TestMatchUpdate_UsesSetInsert(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	doc := matchUpdate(7, at)

	assert.Equal(t, bson.M{"matched_profiles": int64(7)}, doc["$addToSet"])
	assert.NotContains(t, doc, "$push")
	assert.Equal(t, bson.M{"last_modified": at.UTC()}, doc["$set"])
}

func TestAnalysisUpdate_SetsAnalyzedState(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a := models.DefaultAnalysis()
	set := analysisUpdate(a, at)["$set"].(bson.M)

	assert.Equal(t, models.CVAnalyzed, set["status"])
	assert.Same(t, a, set["analysis"])
	assert.Equal(t, at, set["analyzed_date"])
	assert.Equal(t, at, set["last_modified"])
}

func TestProcessingFilter(t *testing.T) {
	assert.Equal(t, bson.M{"_id": int64(4), "status": models.CVProcessing}, processingFilter(4))
	assert.Equal(t, bson.M{"_id": int64(4)}, byID(4))
}

func TestCounterIncrement(t *testing.T) {
	assert.Equal(t, bson.M{"$inc": bson.M{"seq": 1}}, counterIncrement())
}
