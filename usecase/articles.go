package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"headlines/middleware"
	"headlines/model"
	"headlines/scraper"
	"headlines/utils"

	"golang.org/x/sync/errgroup"
)

const maxToggleAttempts = 3

var startedAt = time.Now()

type ArticlesService struct {
	Articles  model.ArticleStore
	Notes     model.NoteStore
	Fetcher   scraper.Fetcher
	Extractor scraper.Extractor
	SourceURL string
	Logger    *slog.Logger

	// Cache is optional
	Cache    model.ArticleCache
	CacheTTL time.Duration
}

type ScrapeResult struct {
	Found  int `json:"found"`
	Stored int `json:"stored"`
}

// Scrape fetches the source page and stores every extracted candidate.
// Creates run concurrently and all of them are awaited, even after one
// fails; the first failure is returned alongside the partial counts.
func (svc *ArticlesService) Scrape(ctx context.Context) (ScrapeResult, error) {
	var result ScrapeResult

	html, err := svc.Fetcher.Fetch(ctx, svc.SourceURL)
	if err != nil {
		middleware.TrackScrape("fetch_error", 0)
		middleware.TrackError("fetch")
		return result, err
	}

	candidates, err := svc.Extractor.Extract(html)
	if err != nil {
		middleware.TrackScrape("parse_error", 0)
		return result, fmt.Errorf("extract %s: %w", svc.SourceURL, err)
	}

	// A client hanging up must not abandon creates already dispatched
	storeCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	var stored atomic.Int64
	for candidate := range candidates {
		result.Found++
		g.Go(func() error {
			article := model.NewArticle(candidate)
			if err := svc.Articles.CreateArticle(storeCtx, article); err != nil {
				return err
			}
			stored.Add(1)
			svc.Logger.Info("article stored", "id", article.ID.Hex(), "title", article.Title)
			return nil
		})
	}

	err = g.Wait()
	result.Stored = int(stored.Load())

	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			middleware.TrackError("validation")
		} else {
			middleware.TrackError("db")
		}
		middleware.TrackScrape("store_error", result.Stored)
		return result, err
	}

	middleware.TrackScrape("success", result.Stored)
	svc.Logger.Info("Scrape Complete", "url", svc.SourceURL, "found", result.Found, "stored", result.Stored)
	return result, nil
}

// ListArticles returns all articles, or only saved ones, newest first
func (svc *ArticlesService) ListArticles(ctx context.Context, savedOnly bool) ([]*model.Article, error) {
	return svc.Articles.ListArticles(ctx, model.ArticleFilter{SavedOnly: savedOnly})
}

// GetArticle reads through the cache when one is configured
func (svc *ArticlesService) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	if svc.Cache != nil {
		cached, err := svc.Cache.Get(ctx, id)
		if err != nil {
			svc.Logger.Warn("article cache read failed", "id", id, "err", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	article, err := svc.Articles.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}

	if svc.Cache != nil {
		if err := svc.Cache.Set(ctx, article, svc.CacheTTL); err != nil {
			svc.Logger.Warn("article cache write failed", "id", id, "err", err)
		}
	}
	return article, nil
}

// ToggleSaved flips the article's save state relative to what it is when
// read. If another request flips it in between, the read is repeated so
// the toggle applies to the fresh state instead of being lost.
func (svc *ArticlesService) ToggleSaved(ctx context.Context, id string) (*model.Article, error) {
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		current, err := svc.Articles.GetArticle(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := svc.Articles.UpdateArticleSaveState(ctx, id, !current.IsSaved)
		if errors.Is(err, model.ErrSaveStateConflict) {
			svc.Logger.Warn("save toggle raced, retrying", "id", id, "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}

		svc.invalidate(ctx, id)
		if updated.IsSaved {
			middleware.TrackArticleOperation("save")
		} else {
			middleware.TrackArticleOperation("unsave")
		}
		return updated, nil
	}
	return nil, fmt.Errorf("toggle %s after %d attempts: %w", id, maxToggleAttempts, model.ErrSaveStateConflict)
}

// AddNote stores a new note and points the article at it. Any earlier
// note stays in the store but is no longer referenced.
func (svc *ArticlesService) AddNote(ctx context.Context, articleID string, fields map[string]string) (*model.Article, error) {
	note := model.NewNote(fields)
	if err := svc.Notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}

	article, err := svc.Articles.AttachNote(ctx, articleID, note.ID)
	if err != nil {
		return nil, err
	}

	svc.invalidate(ctx, articleID)
	middleware.TrackArticleOperation("note")
	return article, nil
}

// GetNote returns the article's current note, or nil if it has none
func (svc *ArticlesService) GetNote(ctx context.Context, articleID string) (*model.Note, error) {
	article, err := svc.Articles.GetArticleWithNote(ctx, articleID)
	if err != nil {
		return nil, err
	}
	return article.NoteBody, nil
}

func (svc *ArticlesService) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats

	total, err := svc.Articles.CountArticles(ctx, model.ArticleFilter{})
	if err != nil {
		return nil, err
	}
	saved, err := svc.Articles.CountArticles(ctx, model.ArticleFilter{SavedOnly: true})
	if err != nil {
		return nil, err
	}

	stats.Articles.Total = total
	stats.Articles.Saved = saved
	pool := utils.GetMongoMetrics()
	stats.Database.OpenConnections = pool.OpenConnections
	stats.Database.InUseConnections = pool.InUseConnections
	stats.Database.CreatedConnections = pool.CreatedConnections
	stats.Database.ClosedConnections = pool.ClosedConnections
	if !pool.LastEventTime.IsZero() {
		last := pool.LastEventTime
		stats.Database.LastPoolEvent = &last
	}
	stats.System.CPUPercent = utils.GetCPUUsage()
	stats.System.MemoryPercent = utils.GetMemoryUsage()
	stats.System.Uptime = time.Since(startedAt).Round(time.Second).String()
	return &stats, nil
}

func (svc *ArticlesService) invalidate(ctx context.Context, id string) {
	if svc.Cache == nil {
		return
	}
	if err := svc.Cache.Invalidate(ctx, id); err != nil {
		svc.Logger.Warn("article cache invalidation failed", "id", id, "err", err)
	}
}
