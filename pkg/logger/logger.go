package logger

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger структурированный логгер сервиса
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
	Sync() error
}

// Field поле записи лога
type Field struct {
	zap.Field
}

type zapLogger struct {
	base *zap.Logger
}

// NewLogger создает логгер: консольный вывод в dev, JSON в остальных окружениях.
// Неизвестный уровень заменяется на info с предупреждением в самом логе.
func NewLogger(environment, level, serviceName string) (Logger, error) {
	zapLevel, levelErr := zapcore.ParseLevel(level)
	if levelErr != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(newEncoder(environment), zapcore.Lock(os.Stdout), zap.NewAtomicLevelAt(zapLevel))
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(
			zap.String("service", serviceName),
			zap.String("environment", environment),
		)

	l := &zapLogger{base: base}
	if levelErr != nil {
		l.Warn("Unknown log level, using info", String("level", level))
	}
	return l, nil
}

func newEncoder(environment string) zapcore.Encoder {
	if environment == "dev" {
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "msg"
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// NewNop логгер без вывода
func NewNop() Logger {
	return &zapLogger{base: zap.NewNop()}
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.base.Debug(msg, unwrap(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field) { l.base.Info(msg, unwrap(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field) { l.base.Warn(msg, unwrap(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.base.Error(msg, unwrap(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{base: l.base.With(unwrap(fields)...)}
}

func (l *zapLogger) Sync() error {
	return l.base.Sync()
}

func unwrap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i := range fields {
		out[i] = fields[i].Field
	}
	return out
}

type traceIDKey struct{}

// WithTraceID кладет trace_id запроса в контекст
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID trace_id из контекста или пустая строка
func TraceID(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// CtxField поле trace_id для записи в рамках запроса
func CtxField(ctx context.Context) Field {
	traceID := TraceID(ctx)
	if traceID == "" {
		traceID = "unknown"
	}
	return String("trace_id", traceID)
}

func String(key, val string) Field { return Field{zap.String(key, val)} }
func Int(key string, val int) Field { return Field{zap.Int(key, val)} }
func Int64(key string, val int64) Field { return Field{zap.Int64(key, val)} }
func Float64(key string, val float64) Field { return Field{zap.Float64(key, val)} }
func Bool(key string, val bool) Field { return Field{zap.Bool(key, val)} }
func Duration(key string, val time.Duration) Field { return Field{zap.Duration(key, val)} }
func Any(key string, val interface{}) Field { return Field{zap.Any(key, val)} }

// Stringer поле со значением fmt.Stringer, например decimal или статус заказа
func Stringer(key string, val fmt.Stringer) Field { return Field{zap.Stringer(key, val)} }

// Error поле error. nil записывается как "nil", чтобы поле всегда присутствовало.
func Error(err error) Field {
	if err == nil {
		return String("error", "nil")
	}
	return String("error", err.Error())
}
