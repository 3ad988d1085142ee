package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger — общий интерфейс логирования сервиса.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

// ZapLogger реализует Logger поверх zap.
type ZapLogger struct {
	log *zap.Logger
}

// NewZapLogger создаёт JSON-логгер в stdout. Уровень берётся из LOG_LEVEL (debug, info, warn, error).
func NewZapLogger(service string) (*ZapLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Sampling = nil

	level := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if level == "" {
		level = "info"
	}
	if err := cfg.Level.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	log, err := cfg.Build(zap.AddCaller(), zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{log: log.With(zap.String("service", service))}, nil
}

// NewNopLogger возвращает логгер, который ничего не пишет. Используется в тестах.
func NewNopLogger() *ZapLogger {
	return &ZapLogger{log: zap.NewNop()}
}

// New оборачивает готовый *zap.Logger.
func New(log *zap.Logger) *ZapLogger {
	return &ZapLogger{log: log}
}

// With возвращает логгер с дополнительными полями.
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{log: l.log.With(fields...)}
}

func (l *ZapLogger) Debugf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...))
}

func (l *ZapLogger) Infof(format string, args ...any) {
	l.log.Info(fmt.Sprintf(format, args...))
}

func (l *ZapLogger) Warnf(format string, args ...any) {
	l.log.Warn(fmt.Sprintf(format, args...))
}

func (l *ZapLogger) Errorf(err error, format string, args ...any) {
	l.log.Error(fmt.Sprintf(format, args...), zap.Error(err))
}

// Zap отдаёт нижележащий *zap.Logger для middleware.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.log.WithOptions(zap.AddCallerSkip(-1))
}

// Sync сбрасывает буферы. Ошибку sync для stdout/stderr на linux игнорируем.
func (l *ZapLogger) Sync() error {
	_ = l.log.Sync()
	return nil
}
