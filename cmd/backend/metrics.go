package main

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// backendMetrics exposes the vllm:* gauges the perceptor and balancer
// poll. It keeps just enough state to make a simulated engine's
// /metrics output move in response to real traffic: a request bumps
// running count and cache usage on begin() and releases both on end().
type backendMetrics struct {
	mu sync.Mutex

	running    int
	cacheUsage float64

	gaugeCacheUsage prometheus.Gauge
	gaugeRunning    prometheus.Gauge
	gaugeWaiting    prometheus.Gauge
	gaugeSwapped    prometheus.Gauge
}

func newBackendMetrics(reg prometheus.Registerer) *backendMetrics {
	m := &backendMetrics{
		gaugeCacheUsage: prometheus.NewGauge(prometheus.GaugeOpts{Name: "vllm:gpu_cache_usage_perc", Help: "Simulated KV cache occupancy fraction."}),
		gaugeRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "vllm:num_requests_running", Help: "Requests currently executing."}),
		gaugeWaiting:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "vllm:num_requests_waiting", Help: "Requests queued behind the engine."}),
		gaugeSwapped:    prometheus.NewGauge(prometheus.GaugeOpts{Name: "vllm:num_requests_swapped", Help: "Requests swapped out to host memory."}),
	}
	reg.MustRegister(m.gaugeCacheUsage, m.gaugeRunning, m.gaugeWaiting, m.gaugeSwapped)
	return m
}

func (m *backendMetrics) begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running++
	m.cacheUsage = clamp01(m.cacheUsage + 0.05)
	m.gaugeRunning.Set(float64(m.running))
	m.gaugeCacheUsage.Set(m.cacheUsage)
}

func (m *backendMetrics) end() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running > 0 {
		m.running--
	}
	m.cacheUsage = clamp01(m.cacheUsage - 0.05)
	m.gaugeRunning.Set(float64(m.running))
	m.gaugeCacheUsage.Set(m.cacheUsage)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
