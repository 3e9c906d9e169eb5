// Package frontend is the workflow's request generator and completion
// sink: it sends requests into a service's entry agent, collects
// finished messages, and periodically flushes a JSON trail of completed
// requests for offline analysis, mirroring the original Frontend class.
package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/Pranshu258/OpenPrequal/internal/contracts"
	"github.com/Pranshu258/OpenPrequal/internal/message"
)

// completionRecord is one flushed row in the message trail JSON file.
type completionRecord struct {
	MsgID        int64                         `json:"msg_id"`
	Service      string                        `json:"service"`
	ActionTiming []contracts.ActionTiming      `json:"action_timing"`
	DurationSec  float64                       `json:"duration"`
	Timestamp    string                        `json:"timestamp"`
}

// Frontend drives a workflow end to end: sending requests and recording
// completions.
type Frontend struct {
	handler    message.Handler
	dataset    Dataset
	labMark    string
	outDir     string
	logger     *log.Logger

	mu      sync.Mutex
	records []completionRecord

	nextMsgID int64
}

// New builds a frontend writing its completion trail under outDir, using
// labMark to distinguish concurrent runs' output files.
func New(handler message.Handler, dataset Dataset, labMark, outDir string, logger *log.Logger) *Frontend {
	return &Frontend{handler: handler, dataset: dataset, labMark: labMark, outDir: outDir, logger: logger}
}

// RecvLoop drains completed messages off the frontend's own topic,
// marking them done and queuing them for the periodic flush.
func (f *Frontend) RecvLoop(ctx context.Context, pollInterval time.Duration) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			msgs, err := f.handler.Recv(ctx)
			if err != nil {
				f.logf("frontend: recv failed: %v", err)
				continue
			}
			for _, msg := range msgs {
				msg.SetEndTime()
				f.enqueue(msg)
			}
		}
	}
}

func (f *Frontend) enqueue(msg *contracts.Message) {
	duration, _ := msg.DurationSeconds()
	rec := completionRecord{
		MsgID:        msg.ID,
		Service:      msg.ServiceName,
		ActionTiming: msg.ActionTimings(),
		DurationSec:  duration,
		Timestamp:    time.Now().Format(time.RFC3339Nano),
	}
	f.mu.Lock()
	f.records = append(f.records, rec)
	f.mu.Unlock()
}

// FlushLoop periodically writes the accumulated completion trail to
// outDir/msg_data_<labMark>.json until ctx is cancelled.
func (f *Frontend) FlushLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			f.flush()
			return
		case <-ticker.C:
			f.flush()
		}
	}
}

func (f *Frontend) flush() {
	f.mu.Lock()
	snapshot := append([]completionRecord(nil), f.records...)
	f.mu.Unlock()

	path := fmt.Sprintf("%s/msg_data_%s.json", f.outDir, f.labMark)
	body, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		f.logf("frontend: marshal trail: %v", err)
		return
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		f.logf("frontend: write trail to %s: %v", path, err)
	}
}

// SendRequest builds and sends a request Message for serviceName's entry
// agent, using the dataset to source its payload.
func (f *Frontend) SendRequest(ctx context.Context, serviceName, entryAgent string) error {
	payload, err := f.dataset.Next(serviceName)
	if err != nil {
		return fmt.Errorf("frontend: dataset: %w", err)
	}

	f.mu.Lock()
	f.nextMsgID++
	id := f.nextMsgID
	f.mu.Unlock()

	msg := contracts.NewMessage(id, serviceName, contracts.MsgRequest)
	msg.SetPayload(payload)
	msg.SetStartTime()
	return f.handler.Send(ctx, msg, entryAgent)
}

func (f *Frontend) logf(format string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}
