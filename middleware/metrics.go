package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vote outcomes recorded by Metrics.VoteResult.
const (
	VoteAccepted  = "accepted"
	VoteInvalid   = "invalid"
	VoteDuplicate = "duplicate"
	VoteFailed    = "failed"
)

type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	votes     *prometheus.CounterVec
	responses prometheus.Counter
}

// NewMetrics builds the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxgeo_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxgeo_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxgeo_votes_total",
			Help: "Vote intention submissions by result.",
		}, []string{"result"}),
		responses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxgeo_survey_responses_total",
			Help: "Stored survey responses.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.latency, m.votes, m.responses,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Instrument records request count and latency. Unmatched routes share one label.
func (m *Metrics) Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(route, c.Request.Method, status).Inc()
		m.latency.WithLabelValues(route, c.Request.Method, status).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) VoteResult(result string) {
	m.votes.WithLabelValues(result).Inc()
}

func (m *Metrics) ResponseStored() {
	m.responses.Inc()
}
