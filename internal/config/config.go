// Package config loads the service configuration from the environment.
//
// Variables are read without a prefix and lowercased, DATABASE_URL becomes
// database_url. Variables starting with DB_ or SERVER_ are nested into the
// matching block, so DB_MAX_OPEN_CONNS maps to Config.DB.MaxOpenConns.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Env         string        `koanf:"env" validate:"required,oneof=development production test"`
	Port        string        `koanf:"port" validate:"required,numeric"`
	LogLevel    string        `koanf:"log_level" validate:"required"`
	DatabaseURL string        `koanf:"database_url" validate:"required"`
	JWTSecret   string        `koanf:"jwt_secret" validate:"required"`
	JWTTTL      time.Duration `koanf:"jwt_ttl" validate:"required,gt=0"`

	DB     DatabaseConfig `koanf:"db" validate:"required"`
	Server ServerConfig   `koanf:"server" validate:"required"`
}

// DatabaseConfig tunes the shared connection pool.
type DatabaseConfig struct {
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"gt=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"gte=0"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

func Default() *Config {
	return &Config{
		Env:      "development",
		Port:     "8787",
		LogLevel: "info",
		JWTTTL:   72 * time.Hour,
		DB: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Server: ServerConfig{
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
	}
}

// Load overlays the environment on top of Default and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func envKey(s string) string {
	key := strings.ToLower(s)
	for _, section := range []string{"db_", "server_"} {
		if strings.HasPrefix(key, section) {
			return strings.Replace(key, "_", ".", 1)
		}
	}
	return key
}
