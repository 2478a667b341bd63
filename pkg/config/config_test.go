package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfig_DefaultValues проверяет загрузку значений по умолчанию
func TestLoadConfig_DefaultValues(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Database.Host)
	assert.Equal(t, 5432, config.Database.Port)
	assert.Equal(t, "dev", config.Environment)
	assert.Equal(t, 4380*time.Hour, config.TokenLifetime())
	assert.False(t, config.CatalogCache.Enabled)
}

// TestLoadConfig_FileOverride проверяет переопределение значений из файла конфигурации
func TestLoadConfig_FileOverride(t *testing.T) {
	tempFile := filepath.Join(t.TempDir(), "storefront.yaml")
	configContent := `server:
  host: "127.0.0.1"
  port: 9090
database:
  host: "prod-db"
  port: 5433
  name: "shop"
  user: "shop"
  password: "secret"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
  token_lifetime: "720h"
catalog_cache:
  enabled: true
  ttl: "30s"
logger:
  level: "debug"
environment: "prod"
`
	require.NoError(t, os.WriteFile(tempFile, []byte(configContent), 0644))

	config, err := LoadConfig(tempFile)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", config.Server.Host)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "prod-db", config.Database.Host)
	assert.Equal(t, 720*time.Hour, config.TokenLifetime())
	assert.Equal(t, 30*time.Second, config.CatalogCacheTTL())
	assert.Equal(t, "prod", config.Environment)
}

// TestLoadConfig_EnvOverride проверяет переопределение значениями из переменных окружения
func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_HOST", "env-db")
	t.Setenv("JWT_TOKEN_LIFETIME", "1h")
	t.Setenv("CATALOG_CACHE_ENABLED", "true")
	t.Setenv("LOGIN_LIMIT_ENABLED", "true")
	t.Setenv("LOGIN_LIMIT", "5")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "env-db", config.Database.Host)
	assert.Equal(t, time.Hour, config.TokenLifetime())
	assert.True(t, config.CatalogCache.Enabled)
	assert.True(t, config.LoginLimit.Enabled)
	assert.Equal(t, 5, config.LoginLimit.Limit)
	assert.Equal(t, 15*time.Minute, config.LoginLimitWindow())
}

// TestLoadConfig_InvalidEnv проверяет ошибку при некорректном числовом значении
func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	_, err := LoadConfig("")
	assert.Error(t, err)
}

// TestValidate проверяет правила валидации
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad environment", func(c *Config) { c.Environment = "qa" }, true},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"short secret in prod", func(c *Config) { c.Environment = "prod" }, true},
		{"long secret in prod", func(c *Config) {
			c.Environment = "prod"
			c.JWT.Secret = "0123456789abcdef0123456789abcdef"
		}, false},
		{"bad lifetime", func(c *Config) { c.JWT.TokenLifetime = "six months" }, true},
		{"negative lifetime", func(c *Config) { c.JWT.TokenLifetime = "-1h" }, true},
		{"bad cache ttl", func(c *Config) {
			c.CatalogCache.Enabled = true
			c.CatalogCache.TTL = "soon"
		}, true},
		{"zero login limit", func(c *Config) {
			c.LoginLimit.Enabled = true
			c.LoginLimit.Limit = 0
		}, true},
		{"bad login window", func(c *Config) {
			c.LoginLimit.Enabled = true
			c.LoginLimit.Window = "-1m"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}

// TestSave проверяет сохранение и повторную загрузку конфигурации
func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	original := Default()
	original.Server.Port = 8181

	require.NoError(t, original.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8181, loaded.Server.Port)
}
