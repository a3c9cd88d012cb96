package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Database Metrics
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation", "collection"},
	)

	DBPoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "db_pool_connections",
			Help: "MongoDB pool connections by state",
		},
		[]string{"state"}, // open, in_use
	)

	// Scrape Metrics
	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of scrape runs by result",
		},
		[]string{"result"}, // success, fetch_error, parse_error, store_error
	)

	ArticlesScrapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_scraped_total",
			Help: "Total number of articles stored by scrapes",
		},
	)

	// Article Metrics
	ArticleOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_operations_total",
			Help: "Total number of article operations",
		},
		[]string{"operation"}, // save, unsave, note
	)

	// Error Metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors by type",
		},
		[]string{"type"}, // db, fetch, validation, panic
	)
)

// MetricsMiddleware handles basic HTTP metrics
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		c.Next()

		// Route template keeps /:id from exploding the label set
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(
			method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		HTTPRequestDuration.WithLabelValues(
			method,
			path,
		).Observe(time.Since(start).Seconds())

		HTTPResponseSize.WithLabelValues(
			method,
			path,
		).Observe(float64(c.Writer.Size()))
	}
}

// TrackDBOperation tracks database operation duration
func TrackDBOperation(operation, collection string) *prometheus.Timer {
	return prometheus.NewTimer(DBOperationDuration.WithLabelValues(operation, collection))
}

// TrackScrape records the outcome of a scrape run
func TrackScrape(result string, stored int) {
	ScrapesTotal.WithLabelValues(result).Inc()
	ArticlesScrapedTotal.Add(float64(stored))
}

func TrackArticleOperation(operation string) {
	ArticleOperationsTotal.WithLabelValues(operation).Inc()
}

// TrackError increments the error counter by type
func TrackError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}
