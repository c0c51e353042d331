// Package config loads the service configuration.
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Merge   MergeConfig   `mapstructure:"merge"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type MergeConfig struct {
	TargetSheet string `mapstructure:"target_sheet"`
}

// StoreConfig selects where the uploaded template lives.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // memory, redis
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string        `mapstructure:"address"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Key      string        `mapstructure:"key"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)
