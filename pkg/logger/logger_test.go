package logger

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewLogger_Environments проверяет создание логгера для разных окружений
func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"dev", "staging", "prod", "test"} {
		t.Run(env, func(t *testing.T) {
			log, err := NewLogger(env, "debug", "storefront-test")
			require.NoError(t, err)
			require.NotNil(t, log)

			// Проверяем, что можно записывать логи с полями
			log.Debug("debug message", Int64("order_id", 1))
			log.With(String("component", "test")).Info("info message", Duration("took", time.Millisecond))
		})
	}
}

// TestNewLogger_UnknownLevel проверяет, что неизвестный уровень не ломает логгер
func TestNewLogger_UnknownLevel(t *testing.T) {
	log, err := NewLogger("prod", "verbose", "storefront-test")
	require.NoError(t, err)
	log.Info("message")
}

// TestTraceID проверяет передачу trace_id через контекст
func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", TraceID(ctx))
	assert.Equal(t, "unknown", CtxField(ctx).String)

	ctx = WithTraceID(ctx, "trace-123")
	assert.Equal(t, "trace-123", TraceID(ctx))
	assert.Equal(t, "trace-123", CtxField(ctx).String)
}

// TestErrorField проверяет поле ошибки, включая nil
func TestErrorField(t *testing.T) {
	assert.Equal(t, "nil", Error(nil).String)
	assert.Equal(t, "boom", Error(errors.New("boom")).String)
}

// TestStringerField проверяет поле со значением fmt.Stringer
func TestStringerField(t *testing.T) {
	field := Stringer("elapsed", 1500*time.Millisecond)
	assert.Equal(t, "elapsed", field.Key)
	assert.Equal(t, "1.5s", field.Interface.(fmt.Stringer).String())
}

// TestNewNop проверяет, что nop логгер безопасен
func TestNewNop(t *testing.T) {
	log := NewNop()
	log.Error("nothing happens", Error(errors.New("x")))
	assert.NoError(t, log.Sync())
}
