package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"headlines/middleware"
	"headlines/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ArticlesCollection = "articles"
	NotesCollection    = "notes"
)

var _ model.ArticleStore = (*ArticlesRepo)(nil)

type ArticlesRepo struct {
	MongoCollection *mongo.Collection
	NotesCollection *mongo.Collection
}

func GetArticlesRepo(db *mongo.Database) *ArticlesRepo {
	return &ArticlesRepo{
		MongoCollection: db.Collection(ArticlesCollection),
		NotesCollection: db.Collection(NotesCollection),
	}
}

// parseID turns a hex id into an ObjectID. Malformed ids can never match a
// document, so they are reported as not found.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", model.ErrArticleNotFound, id)
	}
	return oid, nil
}

func listFilter(filter model.ArticleFilter) bson.M {
	if filter.SavedOnly {
		return bson.M{"issaved": true}
	}
	return bson.M{}
}

// CreateArticle validates and inserts a new article
func (r *ArticlesRepo) CreateArticle(ctx context.Context, a *model.Article) error {
	defer middleware.TrackDBOperation("insert", ArticlesCollection).ObserveDuration()

	if err := model.ValidateArticle(a); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = model.SaveStatus(a.IsSaved)
	}
	if a.Created.IsZero() {
		// Mongo stores milliseconds
		a.Created = time.Now().UTC().Truncate(time.Millisecond)
	}

	result, err := r.MongoCollection.InsertOne(ctx, a)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return nil
}

// ListArticles returns matching articles, newest first
func (r *ArticlesRepo) ListArticles(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	defer middleware.TrackDBOperation("find", ArticlesCollection).ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, listFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("find articles: %w", err)
	}
	defer cursor.Close(ctx)

	articles := []*model.Article{}
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, fmt.Errorf("decode articles: %w", err)
	}
	return articles, nil
}

func (r *ArticlesRepo) CountArticles(ctx context.Context, filter model.ArticleFilter) (int64, error) {
	defer middleware.TrackDBOperation("count", ArticlesCollection).ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, listFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return count, nil
}

// GetArticle retrieves a single article by id
func (r *ArticlesRepo) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	defer middleware.TrackDBOperation("find_one", ArticlesCollection).ObserveDuration()

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var article model.Article
	err = r.MongoCollection.FindOne(ctx, bson.M{"_id": oid}).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article %s: %w", id, err)
	}
	return &article, nil
}

// UpdateArticleSaveState flips issaved and status in one conditional write.
// The filter only matches while the article is still in the opposite state,
// so two concurrent toggles cannot both apply the same transition.
func (r *ArticlesRepo) UpdateArticleSaveState(ctx context.Context, id string, saved bool) (*model.Article, error) {
	defer middleware.TrackDBOperation("update_save_state", ArticlesCollection).ObserveDuration()

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":     oid,
		"issaved": bson.M{"$ne": saved},
	}
	update := bson.M{
		"$set": bson.M{
			"issaved": saved,
			"status":  model.SaveStatus(saved),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var article model.Article
	err = r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrSaveStateConflict
		}
		return nil, fmt.Errorf("update save state of %s: %w", id, err)
	}
	return &article, nil
}

// AttachNote points the article at noteID, replacing any earlier note
func (r *ArticlesRepo) AttachNote(ctx context.Context, articleID string, noteID primitive.ObjectID) (*model.Article, error) {
	defer middleware.TrackDBOperation("attach_note", ArticlesCollection).ObserveDuration()

	oid, err := parseID(articleID)
	if err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"note": noteID}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var article model.Article
	err = r.MongoCollection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("attach note to %s: %w", articleID, err)
	}
	return &article, nil
}

// GetArticleWithNote loads the article and resolves its note reference
// with a $lookup into the notes collection.
func (r *ArticlesRepo) GetArticleWithNote(ctx context.Context, id string) (*model.ArticleWithNote, error) {
	defer middleware.TrackDBOperation("lookup_note", ArticlesCollection).ObserveDuration()

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.NotesCollection.Name(),
			"localField":   "note",
			"foreignField": "_id",
			"as":           "note_doc",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$note_doc",
			"preserveNullAndEmptyArrays": true,
		}}},
	}

	cursor, err := r.MongoCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("lookup note for %s: %w", id, err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("lookup note for %s: %w", id, err)
		}
		return nil, model.ErrArticleNotFound
	}

	var result model.ArticleWithNote
	if err := cursor.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode article %s: %w", id, err)
	}
	return &result, nil
}
