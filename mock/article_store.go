package mock

import (
	"context"

	"headlines/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ model.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of model.ArticleStore.
type ArticleStore struct {
	CreateArticleFn          func(ctx context.Context, a *model.Article) error
	ListArticlesFn           func(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error)
	CountArticlesFn          func(ctx context.Context, filter model.ArticleFilter) (int64, error)
	GetArticleFn             func(ctx context.Context, id string) (*model.Article, error)
	UpdateArticleSaveStateFn func(ctx context.Context, id string, saved bool) (*model.Article, error)
	AttachNoteFn             func(ctx context.Context, articleID string, noteID primitive.ObjectID) (*model.Article, error)
	GetArticleWithNoteFn     func(ctx context.Context, id string) (*model.ArticleWithNote, error)
}

func (s *ArticleStore) CreateArticle(ctx context.Context, a *model.Article) error {
	return s.CreateArticleFn(ctx, a)
}

func (s *ArticleStore) ListArticles(ctx context.Context, filter model.ArticleFilter) ([]*model.Article, error) {
	return s.ListArticlesFn(ctx, filter)
}

func (s *ArticleStore) CountArticles(ctx context.Context, filter model.ArticleFilter) (int64, error) {
	return s.CountArticlesFn(ctx, filter)
}

func (s *ArticleStore) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	return s.GetArticleFn(ctx, id)
}

func (s *ArticleStore) UpdateArticleSaveState(ctx context.Context, id string, saved bool) (*model.Article, error) {
	return s.UpdateArticleSaveStateFn(ctx, id, saved)
}

func (s *ArticleStore) AttachNote(ctx context.Context, articleID string, noteID primitive.ObjectID) (*model.Article, error) {
	return s.AttachNoteFn(ctx, articleID, noteID)
}

func (s *ArticleStore) GetArticleWithNote(ctx context.Context, id string) (*model.ArticleWithNote, error) {
	return s.GetArticleWithNoteFn(ctx, id)
}

var _ model.NoteStore = (*NoteStore)(nil)

// NoteStore is a mock implementation of model.NoteStore.
type NoteStore struct {
	CreateNoteFn func(ctx context.Context, n *model.Note) error
}

func (s *NoteStore) CreateNote(ctx context.Context, n *model.Note) error {
	return s.CreateNoteFn(ctx, n)
}
