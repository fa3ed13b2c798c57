package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/verse-saver/constant"
)

const (
	logDir      = constant.LogDir
	logFileName = constant.LogFileName
	maxLogSize  = 10 * 1024 * 1024 // 10MB
)

// setupLogging returns a file-backed logger in debug mode and a discarding one otherwise.
// The surface owns the terminal, so logs never go to stdout or stderr.
func setupLogging(debug bool) (*os.File, *log.Logger) {
	discard := log.New(io.Discard)
	if !debug {
		return nil, discard
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, discard
	}

	logPath := filepath.Join(logDir, logFileName)

	// Rotate oversized log
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("verse-saver-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, discard
	}

	logger := log.NewWithOptions(logFile, log.Options{
		Level:           log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Prefix:          "verse-saver",
	})
	// Rotated files hold many runs; tag each line with this one
	return logFile, logger.With("run", uuid.NewString())
}
