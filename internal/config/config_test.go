package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.HTTPAddr != ":8084" {
		t.Errorf("HTTPAddr = %q, want :8084", cfg.HTTPAddr)
	}
	if cfg.JWTExpirySeconds != 3600 {
		t.Errorf("JWTExpirySeconds = %d, want 3600", cfg.JWTExpirySeconds)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("JWT_EXPIRY", "7200")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg := Load()

	if cfg.Env != "production" {
		t.Errorf("Env = %q, want production", cfg.Env)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("HTTPAddr = %q, want :9000", cfg.HTTPAddr)
	}
	if cfg.JWTExpirySeconds != 7200 {
		t.Errorf("JWTExpirySeconds = %d, want 7200", cfg.JWTExpirySeconds)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if len(cfg.CorsAllowedOrigins) != 2 || cfg.CorsAllowedOrigins[1] != "https://admin.example.com" {
		t.Errorf("CorsAllowedOrigins = %v", cfg.CorsAllowedOrigins)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-number")
	t.Setenv("REQUEST_TIMEOUT", "soon")

	cfg := Load()

	if cfg.JWTExpirySeconds != 3600 {
		t.Errorf("JWTExpirySeconds = %d, want fallback 3600", cfg.JWTExpirySeconds)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want fallback 10s", cfg.RequestTimeout)
	}
}
