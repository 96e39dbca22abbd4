package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/andrescamacho/gasstation-go/internal/application/common"
	"github.com/andrescamacho/gasstation-go/internal/infrastructure/config"
)

// ZapLogger implements common.Logger on a zap core
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger builds a logger from logging configuration
func NewZapLogger(cfg config.LoggingConfig) (*ZapLogger, error) {
	var sink zapcore.WriteSyncer
	switch cfg.Output {
	case "stdout", "":
		sink = zapcore.Lock(os.Stdout)
	case "stderr":
		sink = zapcore.Lock(os.Stderr)
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sink = zapcore.AddSync(f)
	default:
		return nil, fmt.Errorf("unsupported log output: %s", cfg.Output)
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var opts []zap.Option
	if cfg.IncludeCaller {
		// skip ZapLogger.Log so the caller is the station code
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	if cfg.IncludeStacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return newZapLogger(sink, cfg.Format, level, opts...), nil
}

// NewWriterLogger builds a logger writing to w, used by tests and the CLI
func NewWriterLogger(w io.Writer, format string, level zapcore.Level) *ZapLogger {
	return newZapLogger(zapcore.AddSync(w), format, level)
}

func newZapLogger(sink zapcore.WriteSyncer, format string, level zapcore.Level, opts ...zap.Option) *ZapLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if format == "text" {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, sink, level)
	return &ZapLogger{logger: zap.New(core, opts...).Named("gasstation")}
}

// Log writes message at level with metadata as structured fields.
// Unknown levels are logged at info.
func (l *ZapLogger) Log(level, message string, metadata map[string]interface{}) {
	fields := make([]zap.Field, 0, len(metadata))
	for k, v := range metadata {
		fields = append(fields, zap.Any(k, v))
	}

	switch strings.ToUpper(level) {
	case "DEBUG":
		l.logger.Debug(message, fields...)
	case "WARN", "WARNING":
		l.logger.Warn(message, fields...)
	case "ERROR":
		l.logger.Error(message, fields...)
	default:
		l.logger.Info(message, fields...)
	}
}

// Sync flushes buffered entries
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

// Verify interface implementation
var _ common.Logger = (*ZapLogger)(nil)
