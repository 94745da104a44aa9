package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_TTL_HOURS", "")
	t.Setenv("BUSINESS_TIMEZONE", "")

	cfg := Load()
	if cfg.Addr() != ":8080" {
		t.Fatalf("expected :8080, got %s", cfg.Addr())
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("expected 12h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.BusinessTimezone != "America/Sao_Paulo" {
		t.Fatalf("unexpected timezone %q", cfg.BusinessTimezone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TTL_HOURS", "not-a-number")
	t.Setenv("MP_ACCESS_TOKEN", "TEST-123")

	cfg := Load()
	if cfg.Addr() != ":9090" {
		t.Fatalf("expected :9090, got %s", cfg.Addr())
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.RedisDB)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("invalid ttl should fall back to default, got %s", cfg.SessionTTL)
	}
	if !cfg.PaymentsEnabled() {
		t.Fatal("payments should be enabled when MP_ACCESS_TOKEN is set")
	}
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://admin.example.com, ,http://localhost:5173")

	cfg := Load()
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://localhost:5173" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}
