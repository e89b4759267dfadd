package config_test

import (
	"testing"
	"time"

	"github.com/iho/authgate/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("CREDENTIAL_BACKEND", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.APIBaseURL == "" {
		t.Fatalf("expected default API base URL to be set")
	}

	if cfg.CredentialBackend != "file" {
		t.Fatalf("expected default credential backend file, got %s", cfg.CredentialBackend)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected default access token TTL 15m, got %s", cfg.AccessTokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://admin.example.com/api/v1")
	t.Setenv("CREDENTIAL_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("API_TIMEOUT", "45s")
	t.Setenv("JWT_SECRET", "top-secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.APIBaseURL != "https://admin.example.com/api/v1" {
		t.Fatalf("expected custom API base URL, got %s", cfg.APIBaseURL)
	}

	if cfg.CredentialBackend != "redis" {
		t.Fatalf("expected redis credential backend, got %s", cfg.CredentialBackend)
	}

	if cfg.RedisURL != "redis://example" {
		t.Fatalf("expected custom redis URL, got %s", cfg.RedisURL)
	}

	if cfg.APITimeout != 45*time.Second {
		t.Fatalf("expected API timeout 45s, got %s", cfg.APITimeout)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port 9090, got %s", cfg.HTTPPort)
	}

	if cfg.JWTSecret != "top-secret" {
		t.Fatalf("expected custom JWT secret, got %s", cfg.JWTSecret)
	}
}
