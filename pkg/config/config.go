package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config представляет конфигурацию приложения. Структура содержит вложенные структуры для различных компонентов приложения.
type Config struct {
	Server       ServerConfig       `json:"server" yaml:"server"`
	GRPC         GRPCConfig         `json:"grpc" yaml:"grpc"`
	Database     DatabaseConfig     `json:"database" yaml:"database"`
	Redis        RedisConfig        `json:"redis" yaml:"redis"`
	RabbitMQ     RabbitMQConfig     `json:"rabbitmq" yaml:"rabbitmq"`
	JWT          JWTConfig          `json:"jwt" yaml:"jwt"`
	CatalogCache CatalogCacheConfig `json:"catalog_cache" yaml:"catalog_cache"`
	LoginLimit   LoginLimitConfig   `json:"login_limit" yaml:"login_limit"`
	Logger       LoggerConfig       `json:"logger" yaml:"logger"`
	Environment  string             `json:"environment" yaml:"environment"`
}

// ServerConfig представляет конфигурацию HTTP-сервера
type ServerConfig struct {
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	ReadTimeout  string `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout string `json:"write_timeout" yaml:"write_timeout"`
}

// GRPCConfig представляет конфигурацию gRPC. Port = 0 отключает gRPC сервер.
type GRPCConfig struct {
	Port int `json:"port" yaml:"port"`
}

// DatabaseConfig представляет параметры подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Name     string `json:"name" yaml:"name"`
	User     string `json:"user" yaml:"user"`
	Password string `json:"password" yaml:"password"`
	SSLMode  string `json:"ssl_mode" yaml:"ssl_mode"`
	MaxConns int    `json:"max_conns" yaml:"max_conns"`
}

// RedisConfig представляет конфигурацию Redis
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
	PoolSize int    `json:"pool_size" yaml:"pool_size"`
}

// RabbitMQConfig представляет конфигурацию RabbitMQ. Пустой URL отключает публикацию событий.
type RabbitMQConfig struct {
	URL      string `json:"url" yaml:"url"`
	Exchange string `json:"exchange" yaml:"exchange"`
}

// JWTConfig представляет конфигурацию JWT
type JWTConfig struct {
	Secret        string `json:"secret" yaml:"secret"`
	TokenLifetime string `json:"token_lifetime" yaml:"token_lifetime"`
}

// CatalogCacheConfig настройки кэша каталога в Redis
type CatalogCacheConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	TTL     string `json:"ttl" yaml:"ttl"`
}

// LoginLimitConfig ограничение попыток входа с одного адреса
type LoginLimitConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Limit   int    `json:"limit" yaml:"limit"`
	Window  string `json:"window" yaml:"window"`
}

// LoggerConfig представляет конфигурацию логгера
type LoggerConfig struct {
	Level string `json:"level" yaml:"level"`
}

// minSecretLength минимальная длина секрета HS256 вне dev окружения
const minSecretLength = 32

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  "10s",
			WriteTimeout: "10s",
		},
		GRPC: GRPCConfig{
			Port: 50051,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Name:     "storefront",
			User:     "storefront",
			Password: "storefront",
			SSLMode:  "disable",
			MaxConns: 20,
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PoolSize: 10,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      "",
			Exchange: "storefront.events",
		},
		JWT: JWTConfig{
			Secret:        "dev-secret-change-me",
			TokenLifetime: "4380h", // 6 месяцев
		},
		CatalogCache: CatalogCacheConfig{
			Enabled: false,
			TTL:     "5m",
		},
		LoginLimit: LoginLimitConfig{
			Enabled: false,
			Limit:   10,
			Window:  "15m",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Environment: "dev",
	}
}

// LoadConfig загружает конфигурацию в следующем порядке приоритета:
// 1. Загрузка значений по умолчанию
// 2. Загрузка из файла (если указан)
// 3. Переопределение значениями из переменных окружения
// 4. Валидация конфигурации
func LoadConfig(configFile string) (*Config, error) {
	config := Default()

	if configFile != "" {
		if err := loadConfigFromFile(config, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := loadConfigFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadConfigFromFile(config *Config, filename string) error {
	filename = os.ExpandEnv(filename)

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	// Сначала пробуем YAML, затем JSON
	if err := yaml.Unmarshal(content, config); err != nil {
		if jsonErr := json.Unmarshal(content, config); jsonErr != nil {
			return fmt.Errorf("failed to unmarshal config file as YAML or JSON: %w", err)
		}
	}

	return nil
}

func loadConfigFromEnv(config *Config) error {
	setString := func(key string, target *string) {
		if value := os.Getenv(key); value != "" {
			*target = value
		}
	}
	setInt := func(key string, target *int) error {
		if value := os.Getenv(key); value != "" {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s: %s", key, value)
			}
			*target = parsed
		}
		return nil
	}

	setString("SERVER_HOST", &config.Server.Host)
	if err := setInt("SERVER_PORT", &config.Server.Port); err != nil {
		return err
	}
	if err := setInt("GRPC_PORT", &config.GRPC.Port); err != nil {
		return err
	}

	setString("DATABASE_HOST", &config.Database.Host)
	if err := setInt("DATABASE_PORT", &config.Database.Port); err != nil {
		return err
	}
	setString("DATABASE_NAME", &config.Database.Name)
	setString("DATABASE_USER", &config.Database.User)
	setString("DATABASE_PASSWORD", &config.Database.Password)
	setString("DATABASE_SSLMODE", &config.Database.SSLMode)

	setString("REDIS_ADDR", &config.Redis.Addr)
	setString("REDIS_PASSWORD", &config.Redis.Password)

	setString("RABBITMQ_URL", &config.RabbitMQ.URL)
	setString("RABBITMQ_EXCHANGE", &config.RabbitMQ.Exchange)

	setString("JWT_SECRET", &config.JWT.Secret)
	setString("JWT_TOKEN_LIFETIME", &config.JWT.TokenLifetime)

	if value := os.Getenv("CATALOG_CACHE_ENABLED"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid CATALOG_CACHE_ENABLED: %s", value)
		}
		config.CatalogCache.Enabled = enabled
	}
	setString("CATALOG_CACHE_TTL", &config.CatalogCache.TTL)

	if value := os.Getenv("LOGIN_LIMIT_ENABLED"); value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid LOGIN_LIMIT_ENABLED: %s", value)
		}
		config.LoginLimit.Enabled = enabled
	}
	if err := setInt("LOGIN_LIMIT", &config.LoginLimit.Limit); err != nil {
		return err
	}
	setString("LOGIN_LIMIT_WINDOW", &config.LoginLimit.Window)

	setString("LOGGER_LEVEL", &config.Logger.Level)
	setString("ENVIRONMENT", &config.Environment)

	return nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	// Поддерживаются только: dev, test, staging, prod
	switch c.Environment {
	case "dev", "test", "staging", "prod":
	default:
		return fmt.Errorf("invalid environment: %s, must be one of: dev, test, staging, prod", c.Environment)
	}

	if c.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.GRPC.Port < 0 || c.GRPC.Port > 65535 {
		return fmt.Errorf("grpc.port must be between 0 and 65535")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be between 1 and 65535")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}

	// Секрет подписи задается один раз при старте и не меняется
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required")
	}
	if c.Environment != "dev" && c.Environment != "test" && len(c.JWT.Secret) < minSecretLength {
		return fmt.Errorf("jwt.secret must be at least %d bytes in %s", minSecretLength, c.Environment)
	}
	if lifetime, err := time.ParseDuration(c.JWT.TokenLifetime); err != nil || lifetime <= 0 {
		return fmt.Errorf("jwt.token_lifetime must be a positive duration, got %q", c.JWT.TokenLifetime)
	}

	if c.CatalogCache.Enabled {
		if ttl, err := time.ParseDuration(c.CatalogCache.TTL); err != nil || ttl <= 0 {
			return fmt.Errorf("catalog_cache.ttl must be a positive duration, got %q", c.CatalogCache.TTL)
		}
	}

	if c.LoginLimit.Enabled {
		if c.LoginLimit.Limit <= 0 {
			return fmt.Errorf("login_limit.limit must be positive")
		}
		if window, err := time.ParseDuration(c.LoginLimit.Window); err != nil || window <= 0 {
			return fmt.Errorf("login_limit.window must be a positive duration, got %q", c.LoginLimit.Window)
		}
	}

	if c.Logger.Level == "" {
		return fmt.Errorf("logger.level is required")
	}

	return nil
}

// TokenLifetime возвращает время жизни токена. Значение уже проверено в Validate.
func (c *Config) TokenLifetime() time.Duration {
	lifetime, _ := time.ParseDuration(c.JWT.TokenLifetime)
	return lifetime
}

// CatalogCacheTTL возвращает TTL кэша каталога
func (c *Config) CatalogCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.CatalogCache.TTL)
	return ttl
}

// LoginLimitWindow возвращает окно ограничения попыток входа
func (c *Config) LoginLimitWindow() time.Duration {
	window, _ := time.ParseDuration(c.LoginLimit.Window)
	return window
}

// ServerTimeouts возвращает таймауты чтения и записи HTTP сервера
func (c *Config) ServerTimeouts() (time.Duration, time.Duration) {
	read, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		read = 10 * time.Second
	}
	write, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		write = 10 * time.Second
	}
	return read, write
}

// Save сохраняет конфигурацию в файл в формате YAML.
// Автоматически создает директорию, если она не существует.
func (c *Config) Save(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	content, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, content, 0644)
}
