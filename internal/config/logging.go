package config

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const defaultLogLevel = "INFO"

// NewLogger configures a component logger that writes to stdout and to a
// rotated file under cfg.LogDir/<component>.log, mirroring the original
// per-component FileLogger files but with size-based rotation instead of
// unbounded append.
func NewLogger(cfg *Config, component string) (*log.Logger, error) {
	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, err
		}
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, component+".log"),
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}

	mw := io.MultiWriter(os.Stdout, rotator)
	logger := log.New(mw, "["+component+"] ", log.LstdFlags|log.Lmicroseconds)
	return logger, nil
}
