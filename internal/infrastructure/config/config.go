package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mrops-br/product-inventory/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	OTLP      OTLPConfig      `yaml:"otlp"`
	Log       LogConfig       `yaml:"log"`
	Session   SessionConfig   `yaml:"session"`
	Inventory InventoryConfig `yaml:"inventory"`
}

type ServerConfig struct {
	Port            string        `yaml:"port"`
	Host            string        `yaml:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxFormBytes    int64         `yaml:"max_form_bytes"`
}

type OTLPConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	Environment string `yaml:"environment"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	FlashTTL   time.Duration `yaml:"flash_ttl"`
}

type InventoryConfig struct {
	Categories []string `yaml:"categories"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxFormBytes:    1 << 20,
		},
		OTLP: OTLPConfig{
			Enabled:     false,
			Endpoint:    "localhost:4317",
			ServiceName: "product-inventory",
			Environment: "development",
		},
		Log: LogConfig{
			Level: "info",
		},
		Session: SessionConfig{
			CookieName: "inventory_session",
			FlashTTL:   10 * time.Minute,
		},
		Inventory: InventoryConfig{
			Categories: append([]string(nil), domain.DefaultCategoryNames...),
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be fixed up with a default
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must not be empty")
	}
	if c.Server.MaxFormBytes <= 0 {
		return fmt.Errorf("server.max_form_bytes must be positive")
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session.cookie_name must not be empty")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := domain.NewCategories(c.Inventory.Categories...); err != nil {
		return fmt.Errorf("inventory.categories: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnv("SERVER_PORT", cfg.Server.Port)
	cfg.OTLP.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLP.Endpoint)
	cfg.OTLP.ServiceName = getEnv("OTEL_SERVICE_NAME", cfg.OTLP.ServiceName)
	cfg.OTLP.Environment = getEnv("OTEL_ENVIRONMENT", cfg.OTLP.Environment)
	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Session.CookieName = getEnv("SESSION_COOKIE_NAME", cfg.Session.CookieName)

	var err error
	if cfg.OTLP.Enabled, err = getEnvBool("OTEL_ENABLED", cfg.OTLP.Enabled); err != nil {
		return err
	}
	if cfg.Server.ReadTimeout, err = getEnvDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout); err != nil {
		return err
	}
	if cfg.Server.WriteTimeout, err = getEnvDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout); err != nil {
		return err
	}
	if cfg.Server.ShutdownTimeout, err = getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout); err != nil {
		return err
	}
	if cfg.Session.FlashTTL, err = getEnvDuration("SESSION_FLASH_TTL", cfg.Session.FlashTTL); err != nil {
		return err
	}
	if cfg.Server.MaxFormBytes, err = getEnvInt64("SERVER_MAX_FORM_BYTES", cfg.Server.MaxFormBytes); err != nil {
		return err
	}

	if value := os.Getenv("INVENTORY_CATEGORIES"); value != "" {
		var categories []string
		for _, c := range strings.Split(value, ",") {
			categories = append(categories, strings.TrimSpace(c))
		}
		cfg.Inventory.Categories = categories
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
