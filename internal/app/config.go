package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
)

// EnvPrefix префикс переменных окружения; вложенность задаётся через "__",
// например MARKETPLACE_STORAGE__POSTGRES_DSN.
const EnvPrefix = "MARKETPLACE_"

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// ServerConfig адреса слушателей и таймаут остановки.
type ServerConfig struct {
	GRPCAddr        string        `koanf:"grpc_addr"`
	HTTPAddr        string        `koanf:"http_addr"`
	MetricsAddr     string        `koanf:"metrics_addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type StorageConfig struct {
	Driver      string `koanf:"driver"`
	PostgresDSN string `koanf:"postgres_dsn"`
	AutoMigrate bool   `koanf:"auto_migrate"`
}

// KafkaConfig пустой список brokers отключает публикацию событий.
type KafkaConfig struct {
	Brokers  []string `koanf:"brokers"`
	ClientID string   `koanf:"client_id"`
	Topic    string   `koanf:"topic"`
	DLQTopic string   `koanf:"dlq_topic"`
}

// OutboxConfig нулевой Retention отключает очистку опубликованных сообщений.
type OutboxConfig struct {
	PollInterval    time.Duration `koanf:"poll_interval"`
	BatchSize       int           `koanf:"batch_size"`
	MaxAttempts     int           `koanf:"max_attempts"`
	RetryDelay      time.Duration `koanf:"retry_delay"`
	Retention       time.Duration `koanf:"retention"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// AuthConfig пустой secret включает dev-режим с заголовком x-caller-id.
type AuthConfig struct {
	Secret   string        `koanf:"secret"`
	Issuer   string        `koanf:"issuer"`
	Audience string        `koanf:"audience"`
	Leeway   time.Duration `koanf:"leeway"`
}

type OrdersConfig struct {
	StrictCancelRequests bool `koanf:"strict_cancel_requests"`
}

// Config описывает настройки запуска приложения.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Log     LogConfig     `koanf:"log"`
	Storage StorageConfig `koanf:"storage"`
	Kafka   KafkaConfig   `koanf:"kafka"`
	Outbox  OutboxConfig  `koanf:"outbox"`
	Auth    AuthConfig    `koanf:"auth"`
	Orders  OrdersConfig  `koanf:"orders"`
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			GRPCAddr:        ":50051",
			HTTPAddr:        ":8080",
			MetricsAddr:     ":9090",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Storage: StorageConfig{
			Driver:      StorageDriverMemory,
			AutoMigrate: true,
		},
		Kafka: KafkaConfig{
			ClientID: "marketplace",
			Topic:    kafka.TopicMarketplaceEvents,
			DLQTopic: kafka.TopicDeadLetterQueue,
		},
		Outbox: OutboxConfig{
			PollInterval:    time.Second,
			BatchSize:       100,
			MaxAttempts:     3,
			RetryDelay:      50 * time.Millisecond,
			Retention:       24 * time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		Auth: AuthConfig{
			Leeway: 30 * time.Second,
		},
	}
}

// LoadConfig накладывает на DefaultConfig YAML-файл (если path не пуст) и
// переменные окружения с префиксом EnvPrefix.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	if c.Server.GRPCAddr == "" {
		return errors.New("server.grpc_addr required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}

	switch c.Storage.Driver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if strings.TrimSpace(c.Storage.PostgresDSN) == "" {
			return errors.New("storage.postgres_dsn required for postgres driver")
		}
	default:
		return fmt.Errorf("unsupported storage.driver %q (use %s|%s)", c.Storage.Driver, StorageDriverMemory, StorageDriverPostgres)
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log.format %q (use text|json)", c.Log.Format)
	}

	if c.KafkaEnabled() && c.Kafka.Topic == "" {
		return errors.New("kafka.topic required when brokers are set")
	}
	if c.Outbox.BatchSize <= 0 {
		return errors.New("outbox.batch_size must be positive")
	}
	if c.Outbox.MaxAttempts <= 0 {
		return errors.New("outbox.max_attempts must be positive")
	}
	if c.Outbox.PollInterval <= 0 {
		return errors.New("outbox.poll_interval must be positive")
	}
	if c.Outbox.Retention < 0 {
		return errors.New("outbox.retention must not be negative")
	}
	if c.Outbox.Retention > 0 && c.Outbox.CleanupInterval <= 0 {
		return errors.New("outbox.cleanup_interval must be positive when retention is set")
	}
	return nil
}

// KafkaEnabled сообщает, настроена ли публикация событий.
func (c Config) KafkaEnabled() bool {
	for _, b := range c.Kafka.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

// ConfigPathFromEnv возвращает путь к YAML-файлу из MARKETPLACE_CONFIG.
func ConfigPathFromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + "CONFIG"))
}

// SetupLogging настраивает глобальный logrus по секции log.
func SetupLogging(cfg LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
