package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"DB_DSN":          "postgres://localhost/report",
		"RSA_PRIVATE_KEY": "priv",
		"RSA_PUBLIC_KEY":  "pub",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Port != "8080" || cfg.Env != "development" || cfg.AppName != "report" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DB.Driver != "postgres" || cfg.DB.QueryTimeout != 10*time.Second || cfg.DB.AutoMigrate {
		t.Fatalf("unexpected db defaults: %+v", cfg.DB)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if cfg.Login.MaxAttempts != 5 || cfg.Login.AttemptWindow != 15*time.Minute {
		t.Fatalf("unexpected login defaults: %+v", cfg.Login)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"ENV":                  "production",
		"DB_DRIVER":            "sqlite",
		"DB_DSN":               "file:report.db",
		"DB_AUTO_MIGRATE":      "true",
		"DB_QUERY_TIMEOUT":     "2s",
		"RSA_PRIVATE_KEY_FILE": "/keys/private.pem",
		"RSA_PUBLIC_KEY_FILE":  "/keys/public.pem",
		"REDIS_ADDR":           "redis:6379",
		"LOGIN_MAX_ATTEMPTS":   "3",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.IsDevelopment() || cfg.DB.Driver != "sqlite" || !cfg.DB.AutoMigrate || cfg.DB.QueryTimeout != 2*time.Second {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Keys.Inline() || cfg.Keys.PrivateKeyFile != "/keys/private.pem" {
		t.Fatalf("unexpected keys config: %+v", cfg.Keys)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Login.MaxAttempts != 3 {
		t.Fatalf("unexpected redis/login config: %+v %+v", cfg.Redis, cfg.Login)
	}
}

func TestLoadWith_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"DB_DRIVER": {"DB_DRIVER": "oracle", "DB_DSN": "x", "RSA_PRIVATE_KEY": "a", "RSA_PUBLIC_KEY": "b"},
		"DB_DSN":    {"RSA_PRIVATE_KEY": "a", "RSA_PUBLIC_KEY": "b"},
		"RSA_":      {"DB_DSN": "x", "RSA_PRIVATE_KEY": "a"},
	}
	for want, env := range cases {
		_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error mentioning %s, got %v", want, err)
		}
	}
}
