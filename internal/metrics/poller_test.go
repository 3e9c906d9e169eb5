package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePayload = `# HELP vllm:gpu_cache_usage_perc GPU KV cache usage
# TYPE vllm:gpu_cache_usage_perc gauge
vllm:gpu_cache_usage_perc 0.42
# HELP vllm:num_requests_running running
# TYPE vllm:num_requests_running gauge
vllm:num_requests_running 3
# HELP vllm:num_requests_waiting waiting
# TYPE vllm:num_requests_waiting gauge
vllm:num_requests_waiting 0
# HELP vllm:num_requests_swapped swapped
# TYPE vllm:num_requests_swapped gauge
vllm:num_requests_swapped 0
# HELP vllm:time_in_queue_requests_sum sum
# TYPE vllm:time_in_queue_requests_sum gauge
vllm:time_in_queue_requests_sum 1.5
`

func TestPollerScrapeOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePayload))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, 50*time.Millisecond, nil)
	require.NoError(t, p.scrapeOnce(context.Background()))

	snap := p.Snapshot()
	assert.InDelta(t, 0.42, snap.GPUCacheUsagePerc, 1e-9)
	assert.InDelta(t, 3, snap.NumRequestsRunning, 1e-9)
	assert.False(t, snap.Waiting)
}

func TestPollerWaitingFlag(t *testing.T) {
	waiting := `vllm:num_requests_waiting 2
`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(waiting))
	}))
	defer srv.Close()

	p := NewPoller(srv.URL, 50*time.Millisecond, nil)
	require.NoError(t, p.scrapeOnce(context.Background()))
	assert.True(t, p.Waiting())
}
