// Package logging builds the process zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log destination and format.
type Options struct {
	Level string
	// File, when set, receives a rotated copy of every log line.
	File string
	// Console forces human-readable output even when stdout is not a terminal.
	Console bool

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New returns a logger writing JSON to stdout, or console output when
// requested or when stdout is a terminal. An unparsable level falls back to
// info.
func New(opts Options) zerolog.Logger {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter is New with an explicit primary writer.
func NewWithWriter(out io.Writer, opts Options) zerolog.Logger {
	if opts.Console || isTerminal(out) {
		out = zerolog.ConsoleWriter{Out: out}
	}

	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, rotating(opts))
	}

	return zerolog.New(out).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel parses a level name case-insensitively, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func rotating(opts Options) *lumberjack.Logger {
	l := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	}
	if l.MaxSize == 0 {
		l.MaxSize = 100
	}
	if l.MaxBackups == 0 {
		l.MaxBackups = 5
	}
	return l
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
