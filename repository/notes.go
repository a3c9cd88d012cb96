package repository

import (
	"context"
	"fmt"

	"headlines/middleware"
	"headlines/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ model.NoteStore = (*NotesRepo)(nil)

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(db *mongo.Database) *NotesRepo {
	return &NotesRepo{
		MongoCollection: db.Collection(NotesCollection),
	}
}

// CreateNote inserts a note. Notes are never updated in place; a new
// annotation always produces a new document.
func (r *NotesRepo) CreateNote(ctx context.Context, n *model.Note) error {
	defer middleware.TrackDBOperation("insert", NotesCollection).ObserveDuration()

	if n.Fields == nil {
		n.Fields = map[string]string{}
	}

	result, err := r.MongoCollection.InsertOne(ctx, n)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}
