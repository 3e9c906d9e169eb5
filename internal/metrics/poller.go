// Package metrics polls a backend's Prometheus /metrics endpoint and
// exposes the vLLM telemetry fields the perceptor and balancer use for
// admission decisions.
package metrics

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
)

const (
	metricGPUCacheUsage = "vllm:gpu_cache_usage_perc"
	metricNumRunning    = "vllm:num_requests_running"
	metricNumWaiting    = "vllm:num_requests_waiting"
	metricNumSwapped    = "vllm:num_requests_swapped"
	metricTimeInQueue   = "vllm:time_in_queue_requests_sum"

	waitingHistoryWindow = 10
)

// Poller scrapes one backend's /metrics on a fixed interval and keeps the
// latest telemetry snapshot available for concurrent readers.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	logger   *log.Logger

	mu             sync.RWMutex
	snapshot       contracts.BackendTelemetry
	waitingHistory []float64
}

// NewPoller creates a poller for the given backend base URL (e.g.
// "http://host:8081"); /metrics is appended when scraping.
func NewPoller(url string, interval time.Duration, logger *log.Logger) *Poller {
	return &Poller{
		url:      url,
		interval: interval,
		client:   &http.Client{Timeout: interval},
		logger:   logger,
	}
}

// Run polls until ctx is cancelled. Intended to be started in its own
// goroutine per backend.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.scrapeOnce(ctx); err != nil {
				p.logf("metrics: scrape %s failed: %v", p.url, err)
			}
		}
	}
}

func (p *Poller) scrapeOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url+"/metrics", nil)
	if err != nil {
		return fmt.Errorf("metrics: build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("metrics: fetch: %w", err)
	}
	defer resp.Body.Close()

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return fmt.Errorf("metrics: parse: %w", err)
	}

	t := contracts.BackendTelemetry{ScrapedAt: time.Now()}
	t.GPUCacheUsagePerc = gaugeValue(families, metricGPUCacheUsage)
	t.NumRequestsRunning = gaugeValue(families, metricNumRunning)
	t.NumRequestsWaiting = gaugeValue(families, metricNumWaiting)
	t.NumRequestsSwapped = gaugeValue(families, metricNumSwapped)
	t.TimeInQueueSum = gaugeValue(families, metricTimeInQueue)

	p.mu.Lock()
	p.waitingHistory = append(p.waitingHistory, t.NumRequestsWaiting)
	if len(p.waitingHistory) > waitingHistoryWindow {
		p.waitingHistory = p.waitingHistory[len(p.waitingHistory)-waitingHistoryWindow:]
	}
	nonZero := 0
	for _, v := range p.waitingHistory {
		if v > 0 {
			nonZero++
		}
	}
	t.WaitingThreshold = 1 - float64(nonZero)*0.005
	t.Waiting = t.NumRequestsWaiting > 0
	p.snapshot = t
	p.mu.Unlock()
	return nil
}

// Snapshot returns the most recently scraped telemetry.
func (p *Poller) Snapshot() contracts.BackendTelemetry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot
}

// Waiting reports whether the backend last reported a non-empty wait
// queue; the perceptor manager skips such backends during placement.
func (p *Poller) Waiting() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot.Waiting
}

func gaugeValue(families map[string]*dto.MetricFamily, name string) float64 {
	fam, ok := families[name]
	if !ok || len(fam.Metric) == 0 {
		return 0
	}
	m := fam.Metric[0]
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	default:
		return 0
	}
}

func (p *Poller) logf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
