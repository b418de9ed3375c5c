package app

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Fatalf("unexpected metrics addr: %s", cfg.MetricsAddr)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.LockTimeout != 3*time.Second {
		t.Fatalf("unexpected lock timeout: %s", cfg.LockTimeout)
	}
	if cfg.DefaultPageSize != 10 {
		t.Fatalf("unexpected page size: %d", cfg.DefaultPageSize)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("expected no brokers, got %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "test-secret")
	t.Setenv("BACKOFFICE_HTTP_ADDR", ":8181")
	t.Setenv("BACKOFFICE_TOKEN_TTL", "30m")
	t.Setenv("BACKOFFICE_LOCK_TIMEOUT", "500ms")
	t.Setenv("BACKOFFICE_DEFAULT_PAGE_SIZE", "25")
	t.Setenv("BACKOFFICE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.HTTPAddr != ":8181" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTPAddr)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.LockTimeout != 500*time.Millisecond {
		t.Fatalf("unexpected lock timeout: %s", cfg.LockTimeout)
	}
	if cfg.DefaultPageSize != 25 {
		t.Fatalf("unexpected page size: %d", cfg.DefaultPageSize)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "broker-1:9092" || cfg.KafkaBrokers[1] != "broker-2:9092" {
		t.Fatalf("unexpected brokers: %v", cfg.KafkaBrokers)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "test-secret")
	t.Setenv("BACKOFFICE_TOKEN_TTL", "tomorrow")
	t.Setenv("BACKOFFICE_DEFAULT_PAGE_SIZE", "-3")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected token ttl: %s", cfg.TokenTTL)
	}
	if cfg.DefaultPageSize != 10 {
		t.Fatalf("unexpected page size: %d", cfg.DefaultPageSize)
	}
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("BACKOFFICE_JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}
