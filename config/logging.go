package config

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds a timestamped logger on stderr. Unknown levels fall back to info.
func NewLogger(level, prefix string) *log.Logger {
	return newLogger(os.Stderr, level, prefix)
}

func newLogger(w io.Writer, level, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}
