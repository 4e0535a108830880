package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musicbox/internal/http/middleware"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	gatherer   prometheus.Gatherer
	requests   *prometheus.CounterVec
	songPlays  prometheus.Counter
	videoViews prometheus.Counter
}

// NewMetrics registers the collectors with reg. A nil reg gets a private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "musicbox_http_requests_total",
			Help: "HTTP requests by route template, method and status code",
		}, []string{"route", "method", "status"}),
		songPlays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_song_plays_total",
			Help: "Recorded song plays",
		}),
		videoViews: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "musicbox_video_views_total",
			Help: "Recorded video views",
		}),
	}
	reg.MustRegister(m.requests, m.songPlays, m.videoViews)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// instrument counts requests by matched route template so ids do not explode label cardinality.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		rec := middleware.NewResponseRecorder(w)
		next.ServeHTTP(rec, r)
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(rec.Status())).Inc()
	})
}
