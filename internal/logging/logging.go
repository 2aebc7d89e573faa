package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

type Logger struct {
	zl       zerolog.Logger
	writer   *lumberjack.Logger
	requests bool
}

func NewLogger(config *Config) (*Logger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var stdout io.Writer = os.Stdout
	if strings.ToLower(config.Format) != FormatJSON {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	logger := &Logger{requests: config.Requests}
	out := stdout

	if config.File != "" {
		// Expand home directory in log file path
		logFile := config.File
		if strings.HasPrefix(logFile, "~/") {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			logFile = filepath.Join(homeDir, logFile[2:])
		}

		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		logger.writer = &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    config.MaxSize, // MB
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge, // days
			Compress:   true,
		}
		// File output is always JSON so it can be shipped as-is
		out = zerolog.MultiLevelWriter(stdout, logger.writer)
	}

	level, _ := zerolog.ParseLevel(strings.ToLower(config.Level))
	logger.zl = zerolog.New(out).Level(level).With().Timestamp().Logger()
	return logger, nil
}

// New returns a JSON logger writing to w at debug level. Tests use it to
// capture output.
func New(w io.Writer) *Logger {
	return &Logger{
		zl:       zerolog.New(w).Level(zerolog.DebugLevel).With().Timestamp().Logger(),
		requests: true,
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{
		zl:       l.zl.With().Interface(key, value).Logger(),
		writer:   l.writer,
		requests: l.requests,
	}
}

// Zerolog exposes the underlying zerolog logger for structured call sites.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}

// RequestsEnabled reports whether per-request access logs are on.
func (l *Logger) RequestsEnabled() bool {
	return l.requests
}

// LogHTTPRequest logs one completed HTTP request.
func (l *Logger) LogHTTPRequest(method, path, clientIP, requestID string, status, bytes int, latency time.Duration) {
	if !l.requests {
		return
	}

	l.zl.Info().
		Str("method", method).
		Str("path", path).
		Str("client_ip", clientIP).
		Str("request_id", requestID).
		Int("status", status).
		Int("bytes", bytes).
		Dur("latency", latency).
		Msg("http_request")
}

// LogHTTPError logs a failed request together with the internal error detail
// that is never returned to the caller.
func (l *Logger) LogHTTPError(method, path, clientIP string, status int, message string, err error) {
	evt := l.zl.Warn()
	if status >= 500 {
		evt = l.zl.Error()
	}

	evt.
		Str("method", method).
		Str("path", path).
		Str("client_ip", clientIP).
		Int("status", status).
		Err(err).
		Msg(message)
}
