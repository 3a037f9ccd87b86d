package monitor

import (
	"math"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/aurum-labs/jewel-studio/common/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const Namespace = "jewel_studio"

const (
	ErrorTypeSuccess  = "success"
	ErrorTypePolicy   = "policy_error"
	ErrorTypeExplicit = "explicit_error"
	ErrorTypeImplicit = "implicit_error"
	ErrorTypeUnknown  = "unknown"
)

// generation takes seconds for 2D and minutes for 3D
var latencyBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600}

// LatencySummary is reported in milliseconds. Percentiles are estimated from
// the histogram buckets.
type LatencySummary struct {
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type RouteSnapshot struct {
	RequestCount   int64          `json:"request_count"`
	SuccessCount   int64          `json:"success_count"`
	ExplicitErrors int64          `json:"explicit_errors"`
	ImplicitErrors int64          `json:"implicit_errors"`
	PolicyErrors   int64          `json:"policy_errors"`
	ErrorRate      float64        `json:"error_rate"`
	Latency        LatencySummary `json:"latency_ms"`
}

// Collector holds the generation route metrics on its own prometheus registry.
type Collector struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inFlight        prometheus.Gauge
	maxInFlight     prometheus.Gauge
	handler         http.Handler

	concurrent    int64
	maxConcurrent int64
}

func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests by outcome",
		},
		[]string{"route", "outcome"},
	)
	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   latencyBuckets,
		},
		[]string{"route"},
	)
	c.inFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "generation_requests_in_flight",
		Help:      "Generation requests currently being served",
	})
	c.maxInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "generation_requests_in_flight_max",
		Help:      "Highest number of concurrent generation requests since start",
	})

	c.registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.inFlight,
		c.maxInFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// the api group already gzips responses
	c.handler = promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry, DisableCompression: true})
	return c
}

var defaultCollector = NewCollector()

func Default() *Collector {
	return defaultCollector
}

func classifyError(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 400:
		return ErrorTypeSuccess
	case statusCode == 401 || statusCode == 403 || statusCode == 429:
		return ErrorTypePolicy
	case statusCode >= 400 && statusCode < 500:
		return ErrorTypeExplicit
	case statusCode >= 500:
		return ErrorTypeImplicit
	default:
		return ErrorTypeUnknown
	}
}

// Record stores the outcome of one request on route.
func (c *Collector) Record(route string, latency time.Duration, statusCode int) {
	c.requestsTotal.WithLabelValues(route, classifyError(statusCode)).Inc()
	c.requestDuration.WithLabelValues(route).Observe(latency.Seconds())
}

func (c *Collector) IncrementConcurrent() {
	current := atomic.AddInt64(&c.concurrent, 1)
	c.inFlight.Inc()
	for {
		max := atomic.LoadInt64(&c.maxConcurrent)
		if current <= max {
			return
		}
		if atomic.CompareAndSwapInt64(&c.maxConcurrent, max, current) {
			c.maxInFlight.Set(float64(current))
			return
		}
	}
}

func (c *Collector) DecrementConcurrent() {
	atomic.AddInt64(&c.concurrent, -1)
	c.inFlight.Dec()
}

func (c *Collector) Concurrent() (current int64, max int64) {
	return atomic.LoadInt64(&c.concurrent), atomic.LoadInt64(&c.maxConcurrent)
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return c.handler
}

// Snapshot summarizes every route from the gathered metric families.
func (c *Collector) Snapshot() map[string]RouteSnapshot {
	snapshot := make(map[string]RouteSnapshot)
	families, err := c.registry.Gather()
	if err != nil {
		logger.SysError("gather metrics failed: " + err.Error())
		return snapshot
	}
	for _, family := range families {
		switch family.GetName() {
		case Namespace + "_generation_requests_total":
			for _, metric := range family.GetMetric() {
				route := labelValue(metric, "route")
				item := snapshot[route]
				count := int64(metric.GetCounter().GetValue())
				item.RequestCount += count
				switch labelValue(metric, "outcome") {
				case ErrorTypeSuccess:
					item.SuccessCount += count
				case ErrorTypePolicy:
					item.PolicyErrors += count
				case ErrorTypeExplicit:
					item.ExplicitErrors += count
				case ErrorTypeImplicit:
					item.ImplicitErrors += count
				}
				snapshot[route] = item
			}
		case Namespace + "_generation_request_duration_seconds":
			for _, metric := range family.GetMetric() {
				route := labelValue(metric, "route")
				item := snapshot[route]
				item.Latency = summarize(metric.GetHistogram())
				snapshot[route] = item
			}
		}
	}
	for route, item := range snapshot {
		if item.RequestCount > 0 {
			totalErrors := item.ExplicitErrors + item.ImplicitErrors + item.PolicyErrors
			item.ErrorRate = float64(totalErrors) / float64(item.RequestCount) * 100
			snapshot[route] = item
		}
	}
	return snapshot
}

func labelValue(metric *dto.Metric, name string) string {
	for _, label := range metric.GetLabel() {
		if label.GetName() == name {
			return label.GetValue()
		}
	}
	return ""
}

func summarize(histogram *dto.Histogram) LatencySummary {
	count := histogram.GetSampleCount()
	if count == 0 {
		return LatencySummary{}
	}
	return LatencySummary{
		Avg: histogram.GetSampleSum() / float64(count) * 1000,
		P50: bucketQuantile(0.50, histogram) * 1000,
		P95: bucketQuantile(0.95, histogram) * 1000,
		P99: bucketQuantile(0.99, histogram) * 1000,
	}
}

// bucketQuantile interpolates linearly inside the bucket holding the rank,
// the way histogram_quantile does. Ranks past the last bound report that bound.
func bucketQuantile(q float64, histogram *dto.Histogram) float64 {
	buckets := histogram.GetBucket()
	if len(buckets) == 0 {
		return 0
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].GetUpperBound() < buckets[j].GetUpperBound()
	})
	rank := q * float64(histogram.GetSampleCount())
	lowerBound, lowerCount := 0.0, 0.0
	for _, bucket := range buckets {
		upperBound := bucket.GetUpperBound()
		upperCount := float64(bucket.GetCumulativeCount())
		if upperCount >= rank && !math.IsInf(upperBound, 1) {
			if upperCount == lowerCount {
				return upperBound
			}
			return lowerBound + (upperBound-lowerBound)*(rank-lowerCount)/(upperCount-lowerCount)
		}
		lowerBound, lowerCount = upperBound, upperCount
	}
	return lowerBound
}
