package config

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	if db == nil {
		return errors.New("mongo database is nil; call InitMongo() first")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cvs := db.Collection("cvs")
	_, err := cvs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "last_modified", Value: -1}},
			Options: options.Index().SetName("by_status_modified"),
		},
		{
			Keys:    bson.D{{Key: "matched_profiles", Value: 1}},
			Options: options.Index().SetName("by_matched_profile"),
		},
	})
	return err
}
