package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"DB_PATH", "DB_AUTO_MIGRATE", "HTTP_ADDRESS", "GRPC_ADDRESS", "SESSION_SECRET",
		"SESSION_TTL_HOURS", "COOKIE_NAME", "COOKIE_SECURE", "ADMIN_PASSWORD", "STATIC_DIR", "CORS_ORIGIN",
		"APP_ENV", "LOG_LEVEL"} {
		// t.Setenv restores the previous value after the test.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.HTTP.Address != ":8080" || cfg.GRPC.Address != ":50051" || cfg.Database.Path != "app.db" || cfg.Auth.SessionSecret == "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Database.AutoMigrate || cfg.Auth.SessionTTL != 168*time.Hour || cfg.App.AdminPassword != "adm123" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is not set")
	}
	t.Setenv("SESSION_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.Database.Path != "test.db" {
		t.Fatalf("DB_PATH not honored: %s", cfg.Database.Path)
	}
}

func TestLoad_RejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL_HOURS", "soon")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for non-numeric SESSION_TTL_HOURS")
	}
	t.Setenv("SESSION_TTL_HOURS", "0")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for zero SESSION_TTL_HOURS")
	}
	t.Setenv("SESSION_TTL_HOURS", "1")
	t.Setenv("DB_AUTO_MIGRATE", "maybe")
	if _, err := LoadWithDefaults(); err == nil {
		t.Fatalf("expected error for non-boolean DB_AUTO_MIGRATE")
	}
}

func TestString_MasksSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "hunter2")
	t.Setenv("ADMIN_PASSWORD", "adm-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := cfg.String()
	if strings.Contains(s, "hunter2") || strings.Contains(s, "adm-secret") {
		t.Fatalf("secret leaked in %q", s)
	}
}

func TestCORSOrigins(t *testing.T) {
	cfg := &Config{HTTP: HTTPConfig{CORSOrigin: " http://a.test/ , ,http://b.test"}}
	got := cfg.CORSOrigins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", got)
	}
}
