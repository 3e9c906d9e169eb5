// Package perceptor implements the memory-aware admission controller: a
// per-backend forward projection of KV-cache token occupancy, sliced into
// fixed-width time buckets, used to decide whether a new request can be
// admitted without starving requests already running on that backend.
package perceptor

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/config"
	"github.com/Pranshu258/OpenPrequal/internal/metrics"
)

// pendingRequest is one admitted (or tentatively-admitted) request's
// footprint on the perceptor's interval map.
type pendingRequest struct {
	msgID         int64
	promptTokens  int
	admittedAt    time.Time
	admittedSlot  int64
	slots         []int64
}

// cumulativeMemory estimates how many KV-cache tokens this request holds
// by the given slot: its prompt tokens plus whatever it has decoded since
// admission, at tokensPerSlot per elapsed bucket.
func (r *pendingRequest) cumulativeMemory(slot int64, tokensPerSlot float64) float64 {
	elapsed := slot - r.admittedSlot
	if elapsed < 0 {
		elapsed = 0
	}
	return float64(r.promptTokens) + float64(elapsed)*tokensPerSlot
}

func slotIndex(t time.Time, delta time.Duration) int64 {
	return t.UnixNano() / delta.Nanoseconds()
}

// Perceptor tracks one backend's projected memory occupancy. TryAdd
// copies its interval map before mutating it, so a rejected request never
// leaves a partial trace behind.
type Perceptor struct {
	url    string
	delta  time.Duration
	tables *config.Tables
	poller *metrics.Poller
	logger *log.Logger

	mu            sync.Mutex
	intervals     map[int64][]*pendingRequest
	msgMap        map[int64]*pendingRequest
	biasTokens    float64
	predMaxTokens float64
}

// New creates a perceptor for one backend URL.
func New(url string, tables *config.Tables, delta time.Duration, poller *metrics.Poller, logger *log.Logger) *Perceptor {
	return &Perceptor{
		url:       url,
		delta:     delta,
		tables:    tables,
		poller:    poller,
		logger:    logger,
		intervals: make(map[int64][]*pendingRequest),
		msgMap:    make(map[int64]*pendingRequest),
	}
}

// getSlope returns the per-slot decode rate for a bucket already holding
// k concurrent requests. It is presently a constant hook, matching
// get_slope's TODO-shaped behavior in the source this was modeled on: a
// place to plug in occupancy-dependent throughput degradation later.
func (p *Perceptor) getSlope(k int) float64 {
	return p.tables.DecodeSlope
}

// TryAdd attempts to reserve promptTokens + the decode growth predicted
// over predictedTime. On success it commits the reservation and returns
// the peak projected occupancy across the touched slots; on rejection the
// interval map is left untouched.
func (p *Perceptor) TryAdd(msgID int64, promptTokens int, predictedTime time.Duration) (float64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	startSlot := slotIndex(now, p.delta)
	endSlot := slotIndex(now.Add(predictedTime), p.delta)

	newIntervals := make(map[int64][]*pendingRequest, len(p.intervals))
	for k, v := range p.intervals {
		cp := make([]*pendingRequest, len(v))
		copy(cp, v)
		newIntervals[k] = cp
	}

	req := &pendingRequest{
		msgID:        msgID,
		promptTokens: promptTokens,
		admittedAt:   now,
		admittedSlot: startSlot,
	}

	var predMax float64
	for slot := startSlot; slot <= endSlot; slot++ {
		bucket := append(newIntervals[slot], req)
		tokensPerSlot := p.getSlope(len(bucket) - 1)

		var total float64
		for _, r := range bucket {
			total += r.cumulativeMemory(slot, tokensPerSlot)
		}
		total += p.biasTokens

		if total > p.tables.MaxTokens {
			return 0, false
		}
		if total > predMax {
			predMax = total
		}
		newIntervals[slot] = bucket
		req.slots = append(req.slots, slot)
	}

	p.intervals = newIntervals
	p.msgMap[msgID] = req
	p.predMaxTokens = predMax
	return predMax, true
}

// Remove releases a previously admitted request's reservation.
func (p *Perceptor) Remove(msgID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	req, ok := p.msgMap[msgID]
	if !ok {
		return
	}
	for _, slot := range req.slots {
		bucket := p.intervals[slot]
		for i, r := range bucket {
			if r.msgID == msgID {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(bucket) == 0 {
			delete(p.intervals, slot)
		} else {
			p.intervals[slot] = bucket
		}
	}
	delete(p.msgMap, msgID)
}

// RunBiasLoop periodically recalibrates the bias term against the
// backend's real reported GPU cache usage, until ctx is cancelled.
func (p *Perceptor) RunBiasLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.calibrateBias()
		}
	}
}

func (p *Perceptor) calibrateBias() {
	if p.poller == nil {
		return
	}
	snap := p.poller.Snapshot()
	realTokens := snap.GPUCacheUsagePerc * p.tables.MaxTokens

	p.mu.Lock()
	predictTokens := p.predMaxTokens
	var bias float64
	if realTokens > predictTokens {
		bias = (realTokens - predictTokens) * p.tables.BiasFactor
	} else {
		bias = (realTokens - predictTokens) * (2 - p.tables.BiasFactor)
	}
	p.biasTokens = bias
	p.mu.Unlock()

	if p.logger != nil {
		p.logger.Printf("perceptor %s: real=%.1f predicted=%.1f bias=%.1f", p.url, realTokens, predictTokens, bias)
	}
}

// URL returns the backend this perceptor tracks.
func (p *Perceptor) URL() string { return p.url }
