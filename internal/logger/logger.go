package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var base = zerolog.New(os.Stdout).With().Timestamp().Logger()

func init() {
	zerolog.DefaultContextLogger = &base
}

// InitLogging sends logs to stdout and, when filePath is set, to a rotated JSON file.
func InitLogging(filePath string) {
	InitLoggingWithLevel(filePath, "info")
}

// InitLoggingWithLevel is InitLogging with an explicit minimum level.
func InitLoggingWithLevel(filePath, level string) {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}
	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filePath,
				MaxSize:    100, // MB
				MaxBackups: 30,
				MaxAge:     90, // days
			})
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	SetOutput(zerolog.MultiLevelWriter(writers...), lvl)
}

// SetOutput replaces the base logger; tests use it to capture output.
func SetOutput(w io.Writer, level zerolog.Level) {
	base = zerolog.New(w).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &base
}

// WithRequest returns a context whose log lines carry the request and user ids.
func WithRequest(ctx context.Context, requestID, userID string) context.Context {
	c := zerolog.Ctx(ctx).With()
	if requestID != "" {
		c = c.Str("request_id", requestID)
	}
	if userID != "" {
		c = c.Str("user_id", userID)
	}
	l := c.Logger()
	return l.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or the base logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func DebugLog(ctx context.Context, format string, args ...interface{}) {
	zerolog.Ctx(ctx).Debug().Msg(fmt.Sprintf(format, args...))
}

func InfoLog(ctx context.Context, format string, args ...interface{}) {
	zerolog.Ctx(ctx).Info().Msg(fmt.Sprintf(format, args...))
}

func WarnLog(ctx context.Context, format string, args ...interface{}) {
	zerolog.Ctx(ctx).Warn().Msg(fmt.Sprintf(format, args...))
}

func ErrorLog(ctx context.Context, format string, args ...interface{}) {
	zerolog.Ctx(ctx).Error().Msg(fmt.Sprintf(format, args...))
}
