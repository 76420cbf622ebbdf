// Package logging sets up the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a logger that writes JSON to file, appending. If file is
// empty, human-readable logs go to stderr so they never mix with command
// output on stdout.
//
// The level parameter can be one of: debug, info, warn, error, fatal,
// disabled.
func New(level string, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var writer io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = f.Close() }
		writer = f
	}

	return NewWithWriter(writer, lvl), closer, nil
}

// NewWithWriter returns a JSON logger on w.
func NewWithWriter(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(lvl)
}

// ComponentOf derives a component logger from parent.
func ComponentOf(parent zerolog.Logger, name string) zerolog.Logger {
	return parent.With().Str("cmp", name).Logger()
}
