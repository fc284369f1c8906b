// Package logger writes structured log entries, one JSON object per line:
//
//	{"timestamp":"2024-05-01T10:00:00.000Z","requestId":"abc-1","level":"INFO","message":"...","details":{...}}
//
// Entries are built with zerolog. LOG_PRETTY switches to zerolog's console
// writer for local runs.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/balaaddepalli/awsstacks/internal/config"
)

// TimeFormat is ISO-8601 in UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// UnknownRequestID tags entries logged without a request identifier.
const UnknownRequestID = "unknown"

// Level is the severity of an entry.
type Level string

const (
	Info  Level = "INFO"
	Warn  Level = "WARN"
	Error Level = "ERROR"
)

// Logger writes LogEntry lines. It is safe for concurrent use when the
// underlying writer is.
type Logger struct {
	zl        zerolog.Logger
	threshold zerolog.Level
	now       func() time.Time
}

// New creates a Logger writing JSON lines to w. Entries below level are
// dropped; an unparsable level means info.
func New(w io.Writer, level string) *Logger {
	threshold := zerolog.InfoLevel
	if l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level))); err == nil && l != zerolog.NoLevel {
		threshold = l
	}

	return &Logger{
		zl:        zerolog.New(w),
		threshold: threshold,
		now:       time.Now,
	}
}

// FromConfig creates the process logger on stdout.
func FromConfig(cfg config.Config) *Logger {
	var w io.Writer = os.Stdout
	if cfg.LogPretty {
		w = ConsoleWriter(os.Stdout)
	}
	return New(w, cfg.LogLevel)
}

// ConsoleWriter renders entries for a terminal. The entry's timestamp field
// is moved to zerolog's time field so the console shows it.
func ConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:          out,
		TimeFormat:   "15:04:05.000",
		TimeLocation: time.UTC,
		FormatPrepare: func(evt map[string]any) error {
			if ts, ok := evt["timestamp"]; ok {
				evt[zerolog.TimestampFieldName] = ts
				delete(evt, "timestamp")
			}
			return nil
		},
	}
}

// WithClock replaces the timestamp source.
func (l *Logger) WithClock(now func() time.Time) *Logger {
	c := *l
	c.now = now
	return &c
}

// Log writes one entry. details is omitted when empty.
func (l *Logger) Log(level Level, requestID, message string, details map[string]any) {
	if zerologLevel(level) < l.threshold {
		return
	}
	if requestID == "" {
		requestID = UnknownRequestID
	}

	// Log() carries no zerolog level; the entry's own level field is written
	// explicitly so it keeps the upper-case form.
	e := l.zl.Log().
		Str("timestamp", l.now().UTC().Format(TimeFormat)).
		Str("requestId", requestID).
		Str("level", string(level))

	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			e = e.RawJSON("details", raw)
		} else {
			e = e.Str("detailsError", err.Error())
		}
	}

	e.Msg(message)
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
