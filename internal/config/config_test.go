// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testSecret satisfies the 32-character minimum.
const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestDefaultsAreValidWithSecret(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("defaults with secret should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing jwt secret", func(c *Config) { c.Security.JWTSecret = "" }, "jwt_secret"},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }, "32 characters"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"zero cache ttl", func(c *Config) { c.Cache.DefaultTTL = 0 }, "cache.default_ttl"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero daily spins", func(c *Config) { c.Wheel.DailySpins = 0 }, "daily_spins"},
		{"telegram without token", func(c *Config) {
			c.Telegram.Enabled = true
			c.Telegram.WebhookSecret = "s"
		}, "bot_token"},
		{"revalidate without url", func(c *Config) { c.Revalidate.Enabled = true }, "revalidate.url"},
		{"mines count too high", func(c *Config) { c.Games.MinesCount = 25 }, "mines_count"},
		{"max bet below min", func(c *Config) { c.Games.MaxBet = 1 }, "max_bet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"PLAYFORGE_SERVER_PORT", "server.port"},
		{"PLAYFORGE_SECURITY_JWT_SECRET", "security.jwt_secret"},
		{"PLAYFORGE_CACHE_DEFAULT_TTL", "cache.default_ttl"},
		{"PLAYFORGE_TELEGRAM_BOT_TOKEN", "telegram.bot_token"},
		{"PLAYFORGE_GAMES_MAX_BET", "games.max_bet"},
		{"PLAYFORGE_UNKNOWN_SECTION_KEY", ""},
		{"PLAYFORGE_SERVER", ""},
	}

	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9090
security:
  jwt_secret: ` + testSecret + `
cache:
  default_ttl: 2m
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PLAYFORGE_SERVER_PORT", "7070")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Env beats file.
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want env override 7070", cfg.Server.Port)
	}
	// File beats defaults.
	if cfg.Cache.DefaultTTL != 2*time.Minute {
		t.Errorf("cache ttl = %s, want file value 2m", cfg.Cache.DefaultTTL)
	}
	// Defaults survive where unset.
	if cfg.API.DefaultPageSize != 20 {
		t.Errorf("default page size = %d, want 20", cfg.API.DefaultPageSize)
	}
}

func TestLoadCORSFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "security:\n  jwt_secret: " + testSecret + "\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("PLAYFORGE_SECURITY_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Security.CORSOrigins) != 2 {
		t.Fatalf("cors origins = %v, want 2 entries", cfg.Security.CORSOrigins)
	}
	if cfg.Security.CORSOrigins[1] != "https://b.example" {
		t.Errorf("second origin = %q", cfg.Security.CORSOrigins[1])
	}
}

func TestAddr(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}
