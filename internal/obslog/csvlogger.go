// Package obslog holds small file-backed recorders used for offline
// analysis: a timestamped CSV logger and a duration recorder built on top
// of it, mirroring the original CSVLogger/TimeRecorder pair.
package obslog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CSVLogger appends timestamped rows to a CSV file, writing the header
// once on first use if the file doesn't already exist.
type CSVLogger struct {
	mu      sync.Mutex
	path    string
	headers []string
	file    *os.File
	writer  *csv.Writer
}

// NewCSVLogger opens (or creates) path with header ["Timestamp", headers...].
func NewCSVLogger(headers []string, path string) (*CSVLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("obslog: create dir for %s: %w", path, err)
		}
	}

	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("obslog: open %s: %w", path, err)
	}

	l := &CSVLogger{
		path:    path,
		headers: append([]string{"Timestamp"}, headers...),
		file:    f,
		writer:  csv.NewWriter(f),
	}
	if needsHeader {
		if err := l.writer.Write(l.headers); err != nil {
			return nil, fmt.Errorf("obslog: write header to %s: %w", path, err)
		}
		l.writer.Flush()
	}
	return l, nil
}

// Log appends a row, prefixing it with the current timestamp. len(data)
// must equal len(headers) passed to NewCSVLogger.
func (l *CSVLogger) Log(data []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	row := append([]string{time.Now().Format(time.RFC3339Nano)}, data...)
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("obslog: write row to %s: %w", l.path, err)
	}
	l.writer.Flush()
	return l.writer.Error()
}

// Close flushes and closes the underlying file.
func (l *CSVLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer.Flush()
	return l.file.Close()
}
