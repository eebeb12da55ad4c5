package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	requestIDKey ctxKey = "requestID"
	userIDKey    ctxKey = "userID"
)

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// Configure sets the process-wide log level. Unknown levels fall back to info.
func Configure(level string) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// For returns an entry carrying the request and user ids found in ctx.
func For(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if ctx == nil {
		return entry
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok && id != "" {
		entry = entry.WithField("request_id", id)
	}
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		entry = entry.WithField("user_id", id)
	}
	return entry
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func ContextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func UserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// Track logs msg with its duration when the returned func is called.
func Track(ctx context.Context, msg string) func() {
	start := time.Now()
	return func() {
		dur := time.Since(start)
		entry := For(ctx).WithField("duration_ms", dur.Milliseconds())
		if dur > 500*time.Millisecond {
			entry.Warnf("%s completed (slow)", msg)
			return
		}
		entry.Debugf("%s completed", msg)
	}
}
