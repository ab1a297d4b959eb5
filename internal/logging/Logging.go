package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options picks where the global logger writes.
type Options struct {
	Level string
	// File rolls over through lumberjack when set.
	File string
	// Console keeps stderr as a sink. The local terminal game turns it off so log
	// lines do not tear the screen.
	Console bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures the charmbracelet default logger. Close the result on exit.
func Setup(opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		parsed, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("unknown log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var sinks []io.Writer
	var closer io.Closer = nopCloser{}
	if opts.Console {
		sinks = append(sinks, os.Stderr)
	}
	if opts.File != "" {
		// 10MB per file, 3 backups, a week
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		}
		sinks = append(sinks, lj)
		closer = lj
	}

	switch len(sinks) {
	case 0:
		log.SetOutput(io.Discard)
	case 1:
		log.SetOutput(sinks[0])
	default:
		log.SetOutput(io.MultiWriter(sinks...))
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	return closer, nil
}
