package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EXMERGE_SERVER_ADDR.
const EnvPrefix = "EXMERGE"

// Load reads configuration from path (or config.yaml in ./configs or the
// working directory when path is empty), then applies environment overrides.
func Load(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideFromEnv(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads .env from the working directory when present.
func loadEnvFile() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "exmerge")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.max_upload_bytes", 50*1024*1024)
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("merge.target_sheet", "GA RAW")

	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.redis.address", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key", "exmerge:template")
	v.SetDefault("store.redis.ttl", "0s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// overrideFromEnv applies variables that do not follow the prefixed naming.
func overrideFromEnv(cfg *Config) {
	// PORT is what most hosting platforms set.
	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"_SERVER_ADDR") == "" {
		cfg.Server.Addr = "0.0.0.0:" + port
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server.max_upload_bytes must be positive, got %d", cfg.Server.MaxUploadBytes)
	}
	if strings.TrimSpace(cfg.Merge.TargetSheet) == "" {
		return errors.New("merge.target_sheet is required")
	}
	switch cfg.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.Store.Redis.Address == "" {
			return errors.New("store.redis.address is required for the redis backend")
		}
		if cfg.Store.Redis.TTL < 0 {
			return errors.New("store.redis.ttl must not be negative")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (must be memory or redis)", cfg.Store.Backend)
	}
	return nil
}
