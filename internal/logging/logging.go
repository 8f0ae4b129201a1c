// Package logging builds the slog loggers used by the server and CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where logs go. Filename "-" writes to stdout, an empty
// Filename or "." discards file output. Size is in megabytes, age in days.
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Filename   string `json:"filename" yaml:"filename"`
	Append     bool   `json:"append" yaml:"append"`
	MaxSize    int    `json:"maxSize" yaml:"max_size"`
	MaxBackups int    `json:"maxBackups" yaml:"max_backups"`
	MaxAge     int    `json:"maxAge" yaml:"max_age"`
	Compress   bool   `json:"compress" yaml:"compress"`
	Console    bool   `json:"console" yaml:"console"`
	JSON       bool   `json:"json" yaml:"json"`
}

// PresetConfigStdout logs everything to stdout as text.
var PresetConfigStdout = Config{Level: "DEBUG", Filename: "-"}

// PresetConfigDiscard drops every record.
var PresetConfigDiscard = Config{Level: "ERROR", Filename: "."}

// ParseLevel maps TRACE, DEBUG, INFO, WARN and ERROR (any case) to a slog
// level. Unknown names are INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE", "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Writer returns the sink cfg describes.
func Writer(cfg Config) io.Writer {
	var writers []io.Writer
	switch cfg.Filename {
	case "", ".":
	case "-":
		writers = append(writers, os.Stdout)
	default:
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}
		if !cfg.Append {
			lj.Rotate()
		}
		writers = append(writers, lj)
	}
	if cfg.Console && cfg.Filename != "-" {
		writers = append(writers, os.Stderr)
	}
	switch len(writers) {
	case 0:
		return io.Discard
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

// New returns a logger for cfg.
func New(cfg Config) *slog.Logger {
	return NewWithWriter(cfg, Writer(cfg))
}

// NewWithWriter returns a logger writing to w at cfg's level and format.
func NewWithWriter(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}
