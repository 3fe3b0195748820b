package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nerrad567/gray-logic-proxy/internal/infrastructure/config"
)

// serviceName is attached to every log entry.
const serviceName = "graylogic-proxy"

// redacted replaces the value of any credential-like attribute.
const redacted = "[REDACTED]"

// sensitiveKeys are attribute keys whose values are never written.
// Controller bearer tokens travel through every panel query.
var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"authorization": {},
	"password":      {},
	"secret":        {},
	"access_token":  {},
}

// Logger is the proxy's structured logger.
//
// It embeds *slog.Logger, so Debug/Info/Warn/Error are available directly and
// *Logger satisfies the narrow Logger interfaces declared by other packages.
// Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds a Logger from configuration.
//
// Parameters:
//   - cfg: Level, format (json|text) and output (stdout|stderr|discard)
//   - version: Attached to every entry as the version field
//
// Returns:
//   - *Logger: Ready for use
func New(cfg config.LoggingConfig, version string) *Logger {
	return newLogger(writerFor(cfg.Output), cfg, version)
}

func newLogger(w io.Writer, cfg config.LoggingConfig, version string) *Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		ReplaceAttr: redact,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	}))}
}

func writerFor(output string) io.Writer {
	switch strings.ToLower(output) {
	case "stderr":
		return os.Stderr
	case "discard":
		return io.Discard
	default:
		return os.Stdout
	}
}

// parseLevel maps debug/info/warn(ing)/error to a slog level, defaulting to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// redact blanks credential attributes at any group depth.
func redact(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

// Component returns a child logger tagged with component=name.
//
// Example:
//
//	engine := poller.NewEngine(poller.Options{Logger: log.Component("poller")})
func (l *Logger) Component(name string) *Logger {
	return l.With("component", name)
}

// With returns a child logger carrying additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Discard returns a logger that drops every entry.
// Used by tests and one-shot CLI commands that report through stdout.
func Discard() *Logger {
	return New(config.LoggingConfig{Level: "error", Format: "text", Output: "discard"}, "dev")
}
