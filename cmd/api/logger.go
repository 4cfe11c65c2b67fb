package main

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger builds the root logger. format is "json" or "text".
func newLogger(level, format string, debug bool) *log.Logger {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = log.InfoLevel
	}
	if debug {
		lvl = log.DebugLevel
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	}
	if strings.EqualFold(format, "json") {
		opts.Formatter = log.JSONFormatter
	}

	logger := log.NewWithOptions(os.Stderr, opts)
	log.SetDefault(logger)
	return logger
}
