package model

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ArticleStore persists articles.
type ArticleStore interface {
	// CreateArticle validates and inserts a, filling in its id and
	// creation time. Returns a *ValidationError if the shape is rejected.
	CreateArticle(ctx context.Context, a *Article) error

	ListArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)
	CountArticles(ctx context.Context, filter ArticleFilter) (int64, error)

	// GetArticle returns ErrArticleNotFound if no article has the id.
	GetArticle(ctx context.Context, id string) (*Article, error)

	// UpdateArticleSaveState moves the article into the given save state,
	// but only if it is currently in the opposite one. Returns
	// ErrSaveStateConflict when nothing matched.
	UpdateArticleSaveState(ctx context.Context, id string, saved bool) (*Article, error)

	AttachNote(ctx context.Context, articleID string, noteID primitive.ObjectID) (*Article, error)
	GetArticleWithNote(ctx context.Context, id string) (*ArticleWithNote, error)
}

// NoteStore persists notes.
type NoteStore interface {
	CreateNote(ctx context.Context, n *Note) error
}

// ArticleCache holds recently read articles by id.
type ArticleCache interface {
	Get(ctx context.Context, id string) (*Article, error)
	Set(ctx context.Context, a *Article, ttl time.Duration) error
	Invalidate(ctx context.Context, id string) error
}

// Stats summarises the stored articles and the host process.
type Stats struct {
	Articles struct {
		Total int64 `json:"total"`
		Saved int64 `json:"saved"`
	} `json:"articles"`
	Database struct {
		OpenConnections    int64      `json:"open_connections"`
		InUseConnections   int64      `json:"in_use_connections"`
		CreatedConnections int64      `json:"created_connections"`
		ClosedConnections  int64      `json:"closed_connections"`
		LastPoolEvent      *time.Time `json:"last_pool_event,omitempty"`
	} `json:"database"`
	System struct {
		CPUPercent    float64 `json:"cpu_percent"`
		MemoryPercent float64 `json:"memory_percent"`
		Uptime        string  `json:"uptime"`
	} `json:"system"`
}
