// Package logger builds the structured logger used by the scanner.
//
// Loggers are constructed explicitly with New and passed to the components that log;
// nothing in this module writes through a package-level logger. Two output formats are
// supported: a colored key=value format for terminals (see ColoredFormatter) and
// logrus' JSON format for log shipping.
//
// Example usage:
//
//	log, err := logger.New(logger.Options{Level: "debug", Output: os.Stderr})
//	if err != nil {
//	    return err
//	}
//	log.WithFields(logrus.Fields{"act_id": 14001}).Warn("fetch failed")
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Format selects the log line encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configure a logger
type Options struct {
	Level   string    // debug, info, warn, error; empty means info
	Format  Format    // text (default) or json
	Output  io.Writer // defaults to os.Stderr
	NoColor bool      // disables colors in the text format
}

// New creates a logger from opts
func New(opts Options) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level: %w", err)
		}
		level = parsed
	}

	log := logrus.New()
	log.SetLevel(level)

	if opts.Output != nil {
		log.SetOutput(opts.Output)
	} else {
		log.SetOutput(os.Stderr)
	}

	switch opts.Format {
	case FormatJSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	case FormatText, "":
		f := NewColoredFormatter()
		f.DisableColors = opts.NoColor
		log.SetFormatter(f)
	default:
		return nil, fmt.Errorf("unknown log format: %s", opts.Format)
	}

	return log, nil
}

// Discard returns a logger that drops everything, for tests and library callers
// that do not care about diagnostics.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
