package clusterserver

import (
	"bytes"
	"context"
	"io"
	"log"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// hcLogger adapts slog.Logger to the hclog.Logger interface used by the
// hashicorp libraries.
type hcLogger struct {
	logger *slog.Logger
	name   string
	args   []any
}

// NewHCLogger wraps logger as an hclog.Logger.
func NewHCLogger(logger *slog.Logger, name string) hclog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &hcLogger{logger: logger.With("component", name), name: name}
}

func toSlogLevel(level hclog.Level) slog.Level {
	switch level {
	case hclog.Trace, hclog.Debug:
		return slog.LevelDebug
	case hclog.Warn:
		return slog.LevelWarn
	case hclog.Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *hcLogger) Log(level hclog.Level, msg string, args ...any) {
	l.logger.Log(context.Background(), toSlogLevel(level), msg, args...)
}

func (l *hcLogger) Trace(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *hcLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *hcLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *hcLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *hcLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *hcLogger) enabled(level slog.Level) bool {
	return l.logger.Enabled(context.Background(), level)
}

func (l *hcLogger) IsTrace() bool { return l.enabled(slog.LevelDebug) }
func (l *hcLogger) IsDebug() bool { return l.enabled(slog.LevelDebug) }
func (l *hcLogger) IsInfo() bool  { return l.enabled(slog.LevelInfo) }
func (l *hcLogger) IsWarn() bool  { return l.enabled(slog.LevelWarn) }
func (l *hcLogger) IsError() bool { return l.enabled(slog.LevelError) }

func (l *hcLogger) ImpliedArgs() []any { return l.args }

func (l *hcLogger) With(args ...any) hclog.Logger {
	implied := append(append([]any{}, l.args...), args...)
	return &hcLogger{logger: l.logger.With(args...), name: l.name, args: implied}
}

func (l *hcLogger) Name() string { return l.name }

func (l *hcLogger) Named(name string) hclog.Logger {
	if l.name != "" {
		name = l.name + "." + name
	}
	return &hcLogger{logger: l.logger.With("component", name), name: name, args: l.args}
}

func (l *hcLogger) ResetNamed(name string) hclog.Logger {
	return &hcLogger{logger: l.logger.With("component", name), name: name, args: l.args}
}

// SetLevel is a no-op; the level is owned by the slog handler.
func (l *hcLogger) SetLevel(hclog.Level) {}

func (l *hcLogger) GetLevel() hclog.Level {
	switch {
	case l.enabled(slog.LevelDebug):
		return hclog.Debug
	case l.enabled(slog.LevelInfo):
		return hclog.Info
	case l.enabled(slog.LevelWarn):
		return hclog.Warn
	default:
		return hclog.Error
	}
}

func (l *hcLogger) StandardLogger(opts *hclog.StandardLoggerOptions) *log.Logger {
	return log.New(l.StandardWriter(opts), "", 0)
}

func (l *hcLogger) StandardWriter(opts *hclog.StandardLoggerOptions) io.Writer {
	w := &levelWriter{logger: l, level: hclog.Info}
	if opts != nil {
		w.infer = opts.InferLevels
		if opts.ForceLevel != hclog.NoLevel {
			w.level = opts.ForceLevel
			w.infer = false
		}
	}
	return w
}

// levelWriter turns standard logger lines such as
// "[DEBUG] memberlist: Stream connection" into leveled records.
type levelWriter struct {
	logger *hcLogger
	level  hclog.Level
	infer  bool
}

func (w *levelWriter) Write(p []byte) (int, error) {
	line := string(bytes.TrimRight(p, "\r\n"))
	level := w.level
	if w.infer {
		level, line = inferLevel(line, w.level)
	}
	w.logger.Log(level, line)
	return len(p), nil
}

func inferLevel(line string, def hclog.Level) (hclog.Level, string) {
	if !strings.HasPrefix(line, "[") {
		return def, line
	}
	end := strings.IndexByte(line, ']')
	if end < 0 {
		return def, line
	}
	tag := strings.ToLower(line[1:end])
	if tag == "err" {
		tag = "error"
	}
	level := hclog.LevelFromString(tag)
	if level == hclog.NoLevel {
		return def, line
	}
	return level, strings.TrimSpace(line[end+1:])
}
