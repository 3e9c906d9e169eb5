package frontend

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// TraceReplayer replays a recorded arrival trace against a single
// service, subsampling rows and optionally duplicating them, and keeps
// the trace's own inter-arrival gaps, mirroring RequestGenerator.
type TraceReplayer struct {
	frontend      *Frontend
	serviceName   string
	entryAgent    string
	sampleInterval int
	scaleFactor   int
}

// NewTraceReplayer builds a replayer over f for one service/entry-agent
// pair. sampleInterval subsamples the trace (keep every Nth row);
// scaleFactor replicates each kept row that many times.
func NewTraceReplayer(f *Frontend, serviceName, entryAgent string, sampleInterval, scaleFactor int) *TraceReplayer {
	if sampleInterval <= 0 {
		sampleInterval = 1
	}
	if scaleFactor <= 0 {
		scaleFactor = 1
	}
	return &TraceReplayer{frontend: f, serviceName: serviceName, entryAgent: entryAgent, sampleInterval: sampleInterval, scaleFactor: scaleFactor}
}

// Replay reads a CSV with a "TIMESTAMP" column and sends one request per
// (subsampled, replicated) row, pacing sends by the row's inter-arrival
// delta.
func (t *TraceReplayer) Replay(ctx context.Context, csvPath string) error {
	timestamps, err := readTimestamps(csvPath)
	if err != nil {
		return err
	}

	var sampled []float64
	for i, ts := range timestamps {
		if i%t.sampleInterval != 0 {
			continue
		}
		for r := 0; r < t.scaleFactor; r++ {
			sampled = append(sampled, ts)
		}
	}

	start := time.Now()
	for i, ts := range sampled {
		if i == 0 {
			if err := t.frontend.SendRequest(ctx, t.serviceName, t.entryAgent); err != nil {
				return err
			}
			continue
		}
		interval := time.Duration((ts - sampled[0]) * float64(time.Second))
		target := start.Add(interval)
		if d := time.Until(target); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := t.frontend.SendRequest(ctx, t.serviceName, t.entryAgent); err != nil {
			return err
		}
	}
	return nil
}

func readTimestamps(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("trace: read %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("trace: %s has no data rows", path)
	}

	col := -1
	for i, h := range rows[0] {
		if h == "TIMESTAMP" {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, fmt.Errorf("trace: %s has no TIMESTAMP column", path)
	}

	out := make([]float64, 0, len(rows)-1)
	for _, row := range rows[1:] {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			return nil, fmt.Errorf("trace: parse timestamp %q: %w", row[col], err)
		}
		out = append(out, v)
	}
	return out, nil
}
