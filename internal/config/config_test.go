package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"APP_ENV", "PORT", "HOST", "SESSION_JWT_SECRET", "LEADERBOARD_DATABASE_URL"} {
		old, existed := os.LookupEnv(k)
		os.Unsetenv(k)
		t.Cleanup(func() {
			if existed {
				os.Setenv(k, old)
			}
		})
	}
	os.Setenv("APP_ENV", "production") // skip the .env file load in tests
}

func TestLoad_DefaultsWhenUnset(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Errorf("Host = %q, want localhost", cfg.Host)
	}
	if cfg.JWTSecret != "" || cfg.DatabaseURL != "" {
		t.Errorf("expected empty optional fields, got %+v", cfg)
	}
}

func TestLoad_ReadsEnvOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("PORT", "9999")
	os.Setenv("HOST", "0.0.0.0")
	os.Setenv("SESSION_JWT_SECRET", "shh")
	os.Setenv("LEADERBOARD_DATABASE_URL", "postgres://x")

	cfg := Load()
	if cfg.Port != "9999" || cfg.Host != "0.0.0.0" {
		t.Errorf("Port/Host = %q/%q, want 9999/0.0.0.0", cfg.Port, cfg.Host)
	}
	if cfg.JWTSecret != "shh" || cfg.DatabaseURL != "postgres://x" {
		t.Errorf("expected overrides to be read, got %+v", cfg)
	}
}
