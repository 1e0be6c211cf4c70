package logger_i

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/akolanti/NotesAPI/internal/config"
)

type Logger struct {
	section string
	attrs   []any
}

// Init installs the process-wide handler. JSON in prod, text otherwise.
func Init(level slog.Level, isProd bool) {
	InitWithWriter(os.Stdout, level, isProd)
}

func InitWithWriter(w io.Writer, level slog.Level, isProd bool) {
	options := &slog.HandlerOptions{
		Level:     level,
		AddSource: isProd,
	}

	var handler slog.Handler
	if isProd {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	slog.SetDefault(slog.New(handler))
}

// NewLogger is safe to call from package initialisers: the handler installed by
// Init is looked up on every call.
func NewLogger(section string) *Logger {
	return &Logger{section: section}
}

func (l *Logger) slogger() *slog.Logger {
	args := make([]any, 0, len(l.attrs)+2)
	args = append(args, "component", l.section)
	return slog.Default().With(append(args, l.attrs...)...)
}

func (l *Logger) Info(msg string, args ...any) {
	l.log(slog.LevelInfo, msg, args...)
}

func (l *Logger) Error(msg string, args ...any) {
	l.log(slog.LevelError, msg, args...)
}

func (l *Logger) Warn(msg string, args ...any) {
	l.log(slog.LevelWarn, msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) {
	l.log(slog.LevelDebug, msg, args...)
}

func (l *Logger) log(level slog.Level, msg string, args ...any) {
	if !slog.Default().Enabled(context.Background(), level) {
		return
	}
	l.slogger().Log(context.Background(), level, msg, args...)
}

func (l *Logger) With(args ...any) *Logger {
	attrs := make([]any, 0, len(l.attrs)+len(args))
	attrs = append(attrs, l.attrs...)
	return &Logger{
		section: l.section,
		attrs:   append(attrs, args...),
	}
}

// WithTrace tags the logger with the trace id carried by ctx, if any.
func (l *Logger) WithTrace(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if trace, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok && trace != "" {
		return l.With("traceId", trace)
	}
	return l
}
