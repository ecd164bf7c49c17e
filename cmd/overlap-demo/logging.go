package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	logDir      = "logs"
	logFileName = "overlap-demo.log"
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging opens the debug log when debug is set, rotating it past maxLogSize
// Returns a nil file and a discarding logger otherwise; the terminal is never written to
func setupLogging(debug bool) (*os.File, *slog.Logger) {
	discard := slog.New(slog.DiscardHandler)
	if !debug {
		log.SetOutput(io.Discard)
		return nil, discard
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil, discard
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("overlap-demo-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil, discard
	}

	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return f, logger
}
