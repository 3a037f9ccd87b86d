package monitor

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, ErrorTypeSuccess},
		{http.StatusNotModified, ErrorTypeSuccess},
		{http.StatusUnauthorized, ErrorTypePolicy},
		{http.StatusTooManyRequests, ErrorTypePolicy},
		{http.StatusBadRequest, ErrorTypeExplicit},
		{http.StatusBadGateway, ErrorTypeImplicit},
		{0, ErrorTypeUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyError(tt.status), tt.status)
	}
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()
	c.Record("/generate-2d", 10*time.Millisecond, http.StatusOK)
	c.Record("/generate-2d", 30*time.Millisecond, http.StatusTooManyRequests)
	c.Record("/generate-2d", 20*time.Millisecond, http.StatusInternalServerError)
	c.Record("/generate-3d", 5*time.Second, http.StatusOK)

	snapshot := c.Snapshot()
	require.Len(t, snapshot, 2)
	image := snapshot["/generate-2d"]
	assert.EqualValues(t, 3, image.RequestCount)
	assert.EqualValues(t, 1, image.SuccessCount)
	assert.EqualValues(t, 1, image.PolicyErrors)
	assert.EqualValues(t, 1, image.ImplicitErrors)
	assert.InDelta(t, 66.67, image.ErrorRate, 0.01)
	assert.InDelta(t, 20, image.Latency.Avg, 0.001)
	assert.InDelta(t, 25, image.Latency.P50, 0.001)
	assert.InDelta(t, 47.5, image.Latency.P95, 0.001)

	model := snapshot["/generate-3d"]
	assert.InDelta(t, 5000, model.Latency.Avg, 0.001)
	assert.InDelta(t, 3500, model.Latency.P50, 0.001)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.requestsTotal.WithLabelValues("/generate-3d", ErrorTypeSuccess)))
}

func TestBucketQuantile(t *testing.T) {
	bounds := []float64{1, 2, 4}
	counts := []uint64{2, 2, 4}
	histogram := &dto.Histogram{SampleCount: proto.Uint64(4)}
	for i := range bounds {
		histogram.Bucket = append(histogram.Bucket, &dto.Bucket{
			UpperBound:      proto.Float64(bounds[i]),
			CumulativeCount: proto.Uint64(counts[i]),
		})
	}
	tests := []struct {
		q    float64
		want float64
	}{
		{0.25, 0.5},
		{0.5, 1},
		{0.75, 3},
		{1, 4},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, bucketQuantile(tt.q, histogram), 1e-9, tt.q)
	}
	assert.Zero(t, bucketQuantile(0.5, &dto.Histogram{}))
}

func TestCollectorHandler(t *testing.T) {
	c := NewCollector()
	c.Record("/generate-3d", 2*time.Second, http.StatusBadGateway)

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/monitor/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `jewel_studio_generation_requests_total{outcome="implicit_error",route="/generate-3d"} 1`)
	assert.Contains(t, body, "jewel_studio_generation_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		c.IncrementConcurrent()
		go func() {
			defer wg.Done()
			c.DecrementConcurrent()
		}()
	}
	wg.Wait()
	current, max := c.Concurrent()
	assert.Zero(t, current)
	assert.GreaterOrEqual(t, max, int64(1))
	assert.Zero(t, testutil.ToFloat64(c.inFlight))
	assert.Equal(t, float64(max), testutil.ToFloat64(c.maxInFlight))
}

func TestReadRuntimeStats(t *testing.T) {
	stats := ReadRuntimeStats()
	assert.Positive(t, stats.Goroutines)
}
