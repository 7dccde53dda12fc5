package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	AppName         string        `env:"APP_NAME,         default=report"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Keys  KeysConfig
	DB    DBConfig
	Redis RedisConfig
	Login LoginConfig
}

// KeysConfig holds the RSA key pair either inline (PEM or bare base64) or as
// file paths. Inline values win when both are set.
type KeysConfig struct {
	PrivateKey     string `env:"RSA_PRIVATE_KEY"`
	PublicKey      string `env:"RSA_PUBLIC_KEY"`
	PrivateKeyFile string `env:"RSA_PRIVATE_KEY_FILE"`
	PublicKeyFile  string `env:"RSA_PUBLIC_KEY_FILE"`
}

// Inline reports whether both keys were provided directly.
func (k KeysConfig) Inline() bool {
	return k.PrivateKey != "" && k.PublicKey != ""
}

type DBConfig struct {
	Driver          string        `env:"DB_DRIVER,            default=postgres"`
	DSN             string        `env:"DB_DSN"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT,     default=10s"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE,      default=false"`
}

// RedisConfig is optional; login throttling is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type LoginConfig struct {
	MaxAttempts   int           `env:"LOGIN_MAX_ATTEMPTS,   default=5"`
	AttemptWindow time.Duration `env:"LOGIN_ATTEMPT_WINDOW, default=15m"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("DB_DSN is required")
	}
	if !c.Keys.Inline() && (c.Keys.PrivateKeyFile == "" || c.Keys.PublicKeyFile == "") {
		return errors.New("RSA_PRIVATE_KEY and RSA_PUBLIC_KEY (or their _FILE variants) are required")
	}
	return nil
}
