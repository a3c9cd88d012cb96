package repository

import (
	"context"
	"log/slog"
	"time"

	"headlines/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ model.ArticleStore = (*LoggingArticleStore)(nil)

// LoggingArticleStore wraps an ArticleStore with debug logging.
type LoggingArticleStore struct {
	next   model.ArticleStore
	logger *slog.Logger
}

func NewLoggingArticleStore(next model.ArticleStore, logger *slog.Logger) *LoggingArticleStore {
	return &LoggingArticleStore{next: next, logger: logger}
}

func (s *LoggingArticleStore) CreateArticle(ctx context.Context, a *model.Article) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create article",
			"id", a.ID.Hex(),
			"title", a.Title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateArticle(ctx, a)
}

func (s *LoggingArticleStore) ListArticles(ctx context.Context, filter model.ArticleFilter) (articles []*model.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("list articles",
			"saved_only", filter.SavedOnly,
			"count", len(articles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ListArticles(ctx, filter)
}

func (s *LoggingArticleStore) CountArticles(ctx context.Context, filter model.ArticleFilter) (count int64, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("count articles",
			"saved_only", filter.SavedOnly,
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountArticles(ctx, filter)
}

func (s *LoggingArticleStore) GetArticle(ctx context.Context, id string) (article *model.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("get article",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetArticle(ctx, id)
}

func (s *LoggingArticleStore) UpdateArticleSaveState(ctx context.Context, id string, saved bool) (article *model.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("update save state",
			"id", id,
			"saved", saved,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateArticleSaveState(ctx, id, saved)
}

func (s *LoggingArticleStore) AttachNote(ctx context.Context, articleID string, noteID primitive.ObjectID) (article *model.Article, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("attach note",
			"id", articleID,
			"note", noteID.Hex(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AttachNote(ctx, articleID, noteID)
}

func (s *LoggingArticleStore) GetArticleWithNote(ctx context.Context, id string) (article *model.ArticleWithNote, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("get article with note",
			"id", id,
			"has_note", article != nil && article.NoteBody != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.GetArticleWithNote(ctx, id)
}
