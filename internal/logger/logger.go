package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with application-specific methods
type Logger struct {
	zerolog.Logger
}

// New creates a new Logger writing to stderr
func New(level string, format string) *Logger {
	return &Logger{Logger: build(level, consoleOrJSON(format, os.Stderr))}
}

// NewWithDir creates a Logger that additionally appends JSON lines to
// dir/YYYY-MM-DD.log. The returned closer releases the file.
func NewWithDir(level, format, dir string) (*Logger, io.Closer, error) {
	if dir == "" {
		return New(level, format), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	name := filepath.Join(dir, time.Now().Format("2006-01-02")+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	out := zerolog.MultiLevelWriter(consoleOrJSON(format, os.Stderr), f)
	return &Logger{Logger: build(level, out)}, f, nil
}

// Nop returns a Logger that discards everything
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

func build(level string, out io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func consoleOrJSON(format string, w io.Writer) io.Writer {
	if format == "text" || format == "console" {
		// Human-readable output for interactive use
		return zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}
	return w
}

// WithComponent returns a new logger with the component name attached
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger: l.With().Str("component", component).Logger(),
	}
}

// WithBatchID returns a new logger with the dispatch batch ID attached
func (l *Logger) WithBatchID(batchID string) *Logger {
	return &Logger{
		Logger: l.With().Str("batch_id", batchID).Logger(),
	}
}

// WithUser returns a new logger with the operator's username attached
func (l *Logger) WithUser(username string) *Logger {
	return &Logger{
		Logger: l.With().Str("user", username).Logger(),
	}
}
