package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	articleIndexes := []mongo.IndexModel{
		// Listing order
		{
			Keys: bson.D{{Key: "created", Value: -1}},
			Options: options.Index().
				SetName("articles_created"),
		},
		// Saved view
		{
			Keys: bson.D{
				{Key: "issaved", Value: 1},
				{Key: "created", Value: -1},
			},
			Options: options.Index().
				SetName("articles_saved_created"),
		},
	}

	_, err := db.Collection(ArticlesCollection).Indexes().CreateMany(ctx, articleIndexes)
	if err != nil {
		return fmt.Errorf("failed to create articles indexes: %w", err)
	}

	slog.Info("created indexes", "collection", ArticlesCollection, "count", len(articleIndexes))
	return nil
}
