package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"headlines/config"
	"headlines/repository"
	"headlines/scraper"
	"headlines/services"
	"headlines/usecase"
	"headlines/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// app owns the process-wide resources: one Mongo client, an optional
// Redis cache, and the service built on them.
type app struct {
	client   *mongo.Client
	cache    *services.ArticleCache
	articles *usecase.ArticlesService
	logger   *slog.Logger
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	client, err := utils.NewMongoClient(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to MongoDB", "database", cfg.Database.Name)

	db := client.Database(cfg.Database.Name)
	if err := repository.SetupIndexes(ctx, db); err != nil {
		logger.Warn("index setup failed", "err", err)
	}

	a := &app{client: client, logger: logger}
	a.articles = &usecase.ArticlesService{
		Articles:  repository.NewLoggingArticleStore(repository.GetArticlesRepo(db), logger),
		Notes:     repository.GetNotesRepo(db),
		Fetcher:   scraper.NewHTTPFetcher(scraper.WithTimeout(cfg.ScrapeTimeout)),
		Extractor: scraper.NewDOMExtractor(),
		SourceURL: scraper.SourceURL,
		Logger:    logger,
		CacheTTL:  cfg.ArticleCacheTTL,
	}

	if cfg.RedisURL != "" {
		cache, err := services.NewArticleCache(cfg.RedisURL)
		if err != nil {
			logger.Warn("article cache disabled", "err", err)
		} else {
			a.cache = cache
			a.articles.Cache = cache
			logger.Info("article cache enabled", "ttl", cfg.ArticleCacheTTL)
		}
	}

	return a, nil
}

func (a *app) Close(ctx context.Context) error {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("closing article cache", "err", err)
		}
	}
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	return nil
}
