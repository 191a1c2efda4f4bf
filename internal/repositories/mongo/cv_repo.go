package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/yoockh/recruitdesk/internal/models"
	"github.com/yoockh/recruitdesk/internal/repositories"
	"github.com/yoockh/recruitdesk/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	cvCollection      = "cvs"
	counterCollection = "counters"
)

type cvRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewCVRepo(db *mongo.Database) repositories.CVRepository {
	return &cvRepo{
		col:      db.Collection(cvCollection),
		counters: db.Collection(counterCollection),
	}
}

// nextID hands out a strictly increasing id per collection.
func (r *cvRepo) nextID(ctx context.Context) (int64, error) {
	var out struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": cvCollection},
		counterIncrement(),
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.After),
	).Decode(&out)
	return out.Seq, err
}

func (r *cvRepo) Insert(ctx context.Context, cv *models.CV) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	cv.ID = id
	if cv.MatchedProfiles == nil {
		cv.MatchedProfiles = []int64{}
	}
	_, err = r.col.InsertOne(ctx, cv)
	return err
}

func (r *cvRepo) List(ctx context.Context) ([]models.CV, error) {
	cur, err := r.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.CV{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cvRepo) GetByID(ctx context.Context, id int64) (*models.CV, error) {
	var cv models.CV
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *cvRepo) update(ctx context.Context, filter, change bson.M) (*models.CV, error) {
	var cv models.CV
	err := r.col.FindOneAndUpdate(ctx,
		filter,
		change,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&cv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (r *cvRepo) SetAnalysis(ctx context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error) {
	return r.update(ctx, byID(id), analysisUpdate(a, at))
}

// FinishProcessing filters on the processing status so a concurrent
// recruiter update wins; a miss is then told apart from a missing CV.
func (r *cvRepo) FinishProcessing(ctx context.Context, id int64, a *models.CVAnalysis, at time.Time) (*models.CV, error) {
	cv, err := r.update(ctx, processingFilter(id), analysisUpdate(a, at))
	if !errors.Is(err, utils.ErrNotFound) {
		return cv, err
	}
	n, err := r.col.CountDocuments(ctx, byID(id), options.Count().SetLimit(1))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, utils.ErrNotFound
	}
	return nil, repositories.ErrStatusChanged
}

func (r *cvRepo) SetStatus(ctx context.Context, id int64, status models.CVStatus, at time.Time) (*models.CV, error) {
	return r.update(ctx, byID(id), statusUpdate(status, at))
}

func (r *cvRepo) AddMatch(ctx context.Context, id, profileID int64, at time.Time) (*models.CV, error) {
	return r.update(ctx, byID(id), matchUpdate(profileID, at))
}

func byID(id int64) bson.M { return bson.M{"_id": id} }

func processingFilter(id int64) bson.M {
	return bson.M{"_id": id, "status": models.CVProcessing}
}

func counterIncrement() bson.M {
	return bson.M{"$inc": bson.M{"seq": 1}}
}

func analysisUpdate(a *models.CVAnalysis, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"analysis":      a,
		"status":        models.CVAnalyzed,
		"analyzed_date": at.UTC(),
		"last_modified": at.UTC(),
	}}
}

func statusUpdate(status models.CVStatus, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"status":        status,
		"last_modified": at.UTC(),
	}}
}

// matchUpdate relies on $addToSet for set semantics.
func matchUpdate(profileID int64, at time.Time) bson.M {
	return bson.M{
		"$addToSet": bson.M{"matched_profiles": profileID},
		"$set":      bson.M{"last_modified": at.UTC()},
	}
}
