package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "SUBMIT_DELAY", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.SubmitDelay != time.Second {
		t.Fatalf("expected 1s submit delay, got %s", cfg.SubmitDelay)
	}
	if cfg.RedisAddr != "" {
		t.Fatalf("expected in-memory sessions by default, got redis %q", cfg.RedisAddr)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.MetricsEnabled {
		t.Fatalf("expected metrics enabled by default")
	}
	if cfg.IsProduction() {
		t.Fatalf("development config reported production")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "Production")
	t.Setenv("SUBMIT_DELAY", "250ms")
	t.Setenv("CONTACT_RATE_PER_SEC", "0.5")
	t.Setenv("CONTACT_RATE_BURST", "3")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CONTENT_FILE", "/etc/blake/content.yaml")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
	if cfg.SubmitDelay != 250*time.Millisecond {
		t.Fatalf("expected submit delay override, got %s", cfg.SubmitDelay)
	}
	if cfg.ContactRatePerSec != 0.5 || cfg.ContactRateBurst != 3 {
		t.Fatalf("expected rate overrides, got %v/%d", cfg.ContactRatePerSec, cfg.ContactRateBurst)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTTL)
	}
	if cfg.RedisAddr != "localhost:6379" || !cfg.RedisTLS {
		t.Fatalf("expected redis overrides, got %q tls=%v", cfg.RedisAddr, cfg.RedisTLS)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected two CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("expected metrics disabled")
	}
	if cfg.ContentFile != "/etc/blake/content.yaml" {
		t.Fatalf("expected content file override, got %q", cfg.ContentFile)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SUBMIT_DELAY", "soon")
	t.Setenv("CONTACT_RATE_BURST", "many")
	cfg := Load()
	if cfg.SubmitDelay != time.Second {
		t.Fatalf("expected default delay for malformed value, got %s", cfg.SubmitDelay)
	}
	if cfg.ContactRateBurst != 20 {
		t.Fatalf("expected default burst for malformed value, got %d", cfg.ContactRateBurst)
	}
}
