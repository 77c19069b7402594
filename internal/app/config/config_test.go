package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

const testConfig = `
ServicePort = 9090
log_level = "debug"
cors_origins = ["http://localhost:3000"]

[Session]
TTL = "2h"

[Redis]
Host = "redis.local"
Port = 6380
`

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config", "test.toml"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CONFIG_NAME", "test")
	viper.Reset()
}

func TestNewConfig(t *testing.T) {
	writeConfig(t, testConfig)
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("DB_DSN", "host=db user=u")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.ServicePort != 9090 || cfg.ServiceHost != "0.0.0.0" {
		t.Fatalf("unexpected address %s:%d", cfg.ServiceHost, cfg.ServicePort)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Fatalf("unexpected session config %+v", cfg.Session)
	}
	if cfg.Session.Secret != "s3cret" || cfg.DSN != "host=db user=u" {
		t.Fatalf("env values not applied: %+v", cfg)
	}
	if cfg.RedisAddr() != "redis.local:6380" {
		t.Fatalf("unexpected redis addr %s", cfg.RedisAddr())
	}
	if cfg.Redis.EventChannel != "service_request_events" {
		t.Fatalf("unexpected channel %q", cfg.Redis.EventChannel)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.Storage.LocalDir != "uploads" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestNewConfig_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		writeConfig(t, testConfig)
		t.Setenv("SESSION_SECRET", "")
		if _, err := NewConfig(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("bad redis port", func(t *testing.T) {
		writeConfig(t, testConfig)
		t.Setenv("SESSION_SECRET", "s3cret")
		t.Setenv("REDIS_PORT", "six")
		if _, err := NewConfig(); err == nil {
			t.Fatal("expected error")
		}
	})
}
