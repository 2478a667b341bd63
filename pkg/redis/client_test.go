package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"StorefrontPlatform/pkg/config"
)

// TestConnect_Unreachable проверяет ошибку подключения к незапущенному Redis
func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := NewConfig()
	cfg.Addr = "127.0.0.1:1"
	cfg.MaxRetries = 1
	cfg.RetryInterval = 10 * time.Millisecond

	_, err := Connect(ctx, cfg)
	assert.Error(t, err)
}

// TestHealthCheck проверяет health check без инициализированного клиента
func TestHealthCheck(t *testing.T) {
	client := &Client{}
	assert.Error(t, client.HealthCheck(context.Background()))
	assert.NoError(t, client.Close())
}

// TestFromAppConfig проверяет перенос параметров из конфигурации приложения
func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.RedisConfig{Addr: "cache:6379", DB: 2, PoolSize: 0})

	assert.Equal(t, "cache:6379", cfg.Addr)
	assert.Equal(t, 2, cfg.DB)
	// Нулевой размер пула заменяется значением по умолчанию
	assert.Equal(t, 10, cfg.PoolSize)
}
