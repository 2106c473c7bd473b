package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	candidatesTried = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "seedhunt",
			Subsystem: "search",
			Name:      "candidates_total",
			Help:      "Candidate phrases tried, as reported by workers.",
		},
	)
	searchRate = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "seedhunt",
			Subsystem: "search",
			Name:      "rate_per_second",
			Help:      "Most recent aggregate throughput in candidates per second.",
		},
	)
	workersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "seedhunt",
			Subsystem: "search",
			Name:      "workers_active",
			Help:      "Workers still searching their partition.",
		},
	)
	workerExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seedhunt",
			Subsystem: "search",
			Name:      "worker_exits_total",
			Help:      "Worker terminations by outcome.",
		},
		[]string{"outcome"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "seedhunt",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "seedhunt",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(candidatesTried, searchRate, workersActive, workerExits, httpRequests, httpDuration)
	})
}

func RecordCandidates(n uint64) {
	RegisterMetrics()
	candidatesTried.Add(float64(n))
}

func RecordRate(perSecond uint64) {
	RegisterMetrics()
	searchRate.Set(float64(perSecond))
}

func WorkerStarted() {
	RegisterMetrics()
	workersActive.Inc()
}

func WorkerStopped(outcome string) {
	RegisterMetrics()
	workersActive.Dec()
	workerExits.WithLabelValues(outcome).Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
