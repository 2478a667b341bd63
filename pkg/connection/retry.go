package connection

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// RetryConfig содержит конфигурацию повторных попыток
type RetryConfig struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
}

// DefaultRetryConfig возвращает конфигурацию по умолчанию
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:  5,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
		Jitter:       true,
	}
}

// FixedRetryConfig попытки с постоянной паузой: retries повторов после первой попытки
func FixedRetryConfig(retries int, interval time.Duration) RetryConfig {
	return RetryConfig{
		MaxAttempts:  retries + 1,
		InitialDelay: interval,
		MaxDelay:     interval,
		Multiplier:   1,
	}
}

// RetryFunc операция, которую нужно повторять. attempt начинается с 1.
type RetryFunc func(ctx context.Context, attempt int) error

// WithRetry выполняет операцию до первого успеха, исчерпания попыток или отмены контекста
func WithRetry(ctx context.Context, config RetryConfig, operation RetryFunc) error {
	attempts := config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w (last error: %v)", ctx.Err(), lastErr)
			case <-time.After(Delay(attempt-1, config)):
			}
		}

		err := operation(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	return fmt.Errorf("operation failed after %d attempts: %w", attempts, lastErr)
}

// Delay пауза перед повтором номер retry (с 1): экспоненциальный рост, ограничение MaxDelay и jitter ±25%
func Delay(retry int, config RetryConfig) time.Duration {
	multiplier := config.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := time.Duration(float64(config.InitialDelay) * math.Pow(multiplier, float64(retry-1)))
	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}

	if config.Jitter && delay > 0 {
		spread := float64(delay) * 0.25
		delay += time.Duration(spread * (2*rand.Float64() - 1))
	}
	return delay
}
