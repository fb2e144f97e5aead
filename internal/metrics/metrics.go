package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	WsConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "artverse_ws_connections",
		Help: "Current number of registered realtime connections",
	})
	WsEmitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artverse_ws_emits_total",
		Help: "Realtime frames handed to connections, by outcome",
	}, []string{"result"})
	GroupMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "artverse_group_messages_total",
		Help: "Total number of group chat messages stored",
	})
	DirectMessagesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "artverse_direct_messages_total",
		Help: "Total number of direct messages stored",
	})
	LikeDriftArtworks = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "artverse_like_drift_artworks",
		Help: "Artworks whose like counter disagreed with wishlist entries at the last audit",
	})
	CatalogRecords = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "artverse_catalog_records",
		Help: "Number of stored records by kind, sampled periodically",
	}, []string{"kind"})
	HttpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
	HttpRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

func init() {
	prometheus.MustRegister(
		WsConnections,
		WsEmitsTotal,
		GroupMessagesTotal,
		DirectMessagesTotal,
		LikeDriftArtworks,
		CatalogRecords,
		HttpRequestsTotal,
		HttpRequestDuration,
	)
}

// Middleware records request counts and latencies, labelled by the matched
// chi route pattern. Requests that match no route share one label.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{"method": r.Method, "path": path, "status": strconv.Itoa(status)}
		HttpRequestsTotal.With(labels).Inc()
		HttpRequestDuration.With(labels).Observe(time.Since(start).Seconds())
	})
}
