package utils

import (
	"sync/atomic"
	"time"

	"headlines/middleware"

	"go.mongodb.org/mongo-driver/event"
)

type MongoMetrics struct {
	OpenConnections    int64
	InUseConnections   int64
	CreatedConnections int64
	ClosedConnections  int64
	LastEventTime      time.Time
}

var (
	metrics       MongoMetrics
	lastEventUnix atomic.Int64
)

// NewPoolMonitor feeds driver pool events into the connection counters
// and the db_pool_connections gauge.
func NewPoolMonitor() *event.PoolMonitor {
	return &event.PoolMonitor{
		Event: func(evt *event.PoolEvent) {
			switch evt.Type {
			case event.ConnectionCreated:
				atomic.AddInt64(&metrics.CreatedConnections, 1)
				atomic.AddInt64(&metrics.OpenConnections, 1)
			case event.ConnectionClosed:
				atomic.AddInt64(&metrics.ClosedConnections, 1)
				atomic.AddInt64(&metrics.OpenConnections, -1)
			case event.GetSucceeded:
				atomic.AddInt64(&metrics.InUseConnections, 1)
			case event.ConnectionReturned:
				atomic.AddInt64(&metrics.InUseConnections, -1)
			default:
				return
			}
			lastEventUnix.Store(time.Now().UnixNano())
			middleware.DBPoolConnections.WithLabelValues("open").Set(float64(atomic.LoadInt64(&metrics.OpenConnections)))
			middleware.DBPoolConnections.WithLabelValues("in_use").Set(float64(atomic.LoadInt64(&metrics.InUseConnections)))
		},
	}
}

// GetMongoMetrics returns a snapshot of the pool counters
func GetMongoMetrics() MongoMetrics {
	snapshot := MongoMetrics{
		OpenConnections:    atomic.LoadInt64(&metrics.OpenConnections),
		InUseConnections:   atomic.LoadInt64(&metrics.InUseConnections),
		CreatedConnections: atomic.LoadInt64(&metrics.CreatedConnections),
		ClosedConnections:  atomic.LoadInt64(&metrics.ClosedConnections),
	}
	if ns := lastEventUnix.Load(); ns != 0 {
		snapshot.LastEventTime = time.Unix(0, ns)
	}
	return snapshot
}
