package handler

import (
	"log/slog"
	"time"

	"headlines/middleware"
	"headlines/usecase"
	"headlines/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	Articles     *usecase.ArticlesService
	Logger       *slog.Logger
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// SetupRouter builds the engine with templates, middleware and routes.
func SetupRouter(cfg RouterConfig) (*gin.Engine, error) {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}
	static, err := views.Static()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(middleware.RequestTracingMiddleware())
	router.Use(middleware.AccessLogMiddleware(cfg.Logger))
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.EnhancedRecoveryMiddleware(cfg.Logger))

	articles := NewArticlesHandler(cfg.Articles, cfg.Logger)
	stats := NewStatsHandler(cfg.Articles)

	assets := router.Group("/static", middleware.CacheControlMiddleware(time.Hour))
	assets.StaticFS("/", static)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api", middleware.CORSMiddleware())
	{
		api.GET("/stats", stats.GetStats)
		api.OPTIONS("/stats")
	}

	router.GET("/scrape", articles.Scrape)
	router.GET("/", articles.Index)
	router.GET("/saved", articles.Saved)
	router.GET("/:id", articles.GetArticle)
	router.POST("/save/:id", articles.ToggleSave)

	notes := router.Group("/note")
	{
		notes.POST("/:id", middleware.RequestSizeLimiter(cfg.MaxBodyBytes), articles.AddNote)
		notes.GET("/:id", articles.GetNote)
	}

	return router, nil
}
