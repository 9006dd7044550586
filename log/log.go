// Package log the structured logger of the module, a JSON slog handler with action and tag fields.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Logger is a logger that with action or map labels
type Logger interface {
	// Action logger with action key filed
	Action(action string) StdLogger
	// With any map data, the value of key must be string, int ... basic value
	With(map[string]any) StdLogger
}

// StdLogger the standard logger
type StdLogger interface {
	// Debug print the debug log if the len(args) is 0, the args will be ignored.
	Debug(msgOrFormat string, args ...any)
	Info(msgOrFormat string, args ...any)
	Warn(msgOrFormat string, args ...any)
	Error(msgOrFormat string, args ...any)
}

const actionKey = "action"

var (
	level = new(slog.LevelVar)
	std   = newLogger(os.Stdout)
)

func init() {
	level.Set(slog.LevelDebug)
}

func newLogger(w io.Writer) *sLogger {
	return &sLogger{logger: slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))}
}

// SetOutput redirect the default logger, the loggers already derived keep their writer.
func SetOutput(w io.Writer) {
	std = newLogger(w)
}

// SetLevel set the log level with: debug, info, warn, error
func SetLevel(lvl string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(lvl))); err != nil {
		return fmt.Errorf("log level %q: %w", lvl, err)
	}
	level.Set(l)
	return nil
}

// Action set action filed for logger
func Action(action string) StdLogger {
	return std.Action(action)
}

// With any map data, the value of key must be string, int ... basic value
func With(m map[string]any) StdLogger {
	return std.With(m)
}

type sLogger struct {
	logger *slog.Logger
}

func (l *sLogger) log(lvl slog.Level, msgOrFormat string, args []any) {
	if len(args) == 0 {
		l.logger.Log(context.Background(), lvl, msgOrFormat)
		return
	}
	l.logger.Log(context.Background(), lvl, fmt.Sprintf(msgOrFormat, args...))
}

func (l *sLogger) Debug(msgOrFormat string, args ...any) { l.log(slog.LevelDebug, msgOrFormat, args) }

func (l *sLogger) Info(msgOrFormat string, args ...any) { l.log(slog.LevelInfo, msgOrFormat, args) }

func (l *sLogger) Warn(msgOrFormat string, args ...any) { l.log(slog.LevelWarn, msgOrFormat, args) }

func (l *sLogger) Error(msgOrFormat string, args ...any) { l.log(slog.LevelError, msgOrFormat, args) }

// Action logger with just an action key.
func (l *sLogger) Action(action string) StdLogger {
	return &sLogger{logger: l.logger.With(slog.String(actionKey, action))}
}

// With add custom maps for logger
func (l *sLogger) With(m map[string]any) StdLogger {
	return &sLogger{logger: l.logger.With(tagsToFields(m)...)}
}

func tagsToFields(m map[string]any) []any {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]any, len(keys))
	for i, key := range keys {
		switch v := m[key].(type) {
		case string:
			fields[i] = slog.String(key, v)
		case int:
			fields[i] = slog.Int(key, v)
		case int64:
			fields[i] = slog.Int64(key, v)
		case bool:
			fields[i] = slog.Bool(key, v)
		case float64:
			fields[i] = slog.Float64(key, v)
		case fmt.Stringer:
			fields[i] = slog.String(key, v.String())
		default:
			fields[i] = slog.Any(key, v)
		}
	}
	return fields
}
