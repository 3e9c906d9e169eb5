package obslog

import (
	"fmt"
	"time"
)

// TimeRecorder wraps a CSVLogger to record named durations, mirroring the
// original measure_time_sync/measure_time_async context managers.
type TimeRecorder struct {
	csv *CSVLogger
}

// NewTimeRecorder opens a CSV at path with columns [Label, "Duration (s)"].
func NewTimeRecorder(path string) (*TimeRecorder, error) {
	l, err := NewCSVLogger([]string{"Label", "Duration (s)"}, path)
	if err != nil {
		return nil, err
	}
	return &TimeRecorder{csv: l}, nil
}

// Measure times fn and records its duration under label.
func (r *TimeRecorder) Measure(label string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start).Seconds()
	if logErr := r.csv.Log([]string{label, fmt.Sprintf("%.6f", elapsed)}); logErr != nil {
		if err == nil {
			return logErr
		}
	}
	return err
}

// Close releases the underlying CSV file.
func (r *TimeRecorder) Close() error { return r.csv.Close() }
