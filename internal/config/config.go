// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package config defines the application configuration and its layered
// loading: built-in defaults, optional YAML file, environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Cache      CacheConfig      `koanf:"cache"`
	Security   SecurityConfig   `koanf:"security"`
	API        APIConfig        `koanf:"api"`
	Telegram   TelegramConfig   `koanf:"telegram"`
	Revalidate RevalidateConfig `koanf:"revalidate"`
	Wheel      WheelConfig      `koanf:"wheel"`
	Games      GamesConfig      `koanf:"games"`
	Banlist    BanlistConfig    `koanf:"banlist"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig configures the embedded DuckDB store.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = runtime.NumCPU()
}

// CacheConfig configures the in-process tag-indexed cache.
type CacheConfig struct {
	DefaultTTL      time.Duration `koanf:"default_ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// SecurityConfig configures authentication and request limiting.
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPasswordHash string        `koanf:"admin_password_hash"` // bcrypt
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// APIConfig configures pagination defaults.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// TelegramConfig configures the bot webhook and outbound client.
type TelegramConfig struct {
	Enabled       bool          `koanf:"enabled"`
	BotToken      string        `koanf:"bot_token"`
	WebhookSecret string        `koanf:"webhook_secret"`
	APIBaseURL    string        `koanf:"api_base_url"`
	SendTimeout   time.Duration `koanf:"send_timeout"`
	AdminChatID   int64         `koanf:"admin_chat_id"`
}

// RevalidateConfig configures the best-effort frontend revalidation hook.
type RevalidateConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Secret  string        `koanf:"secret"`
	Timeout time.Duration `koanf:"timeout"`
}

// WheelConfig configures daily wheel spins.
type WheelConfig struct {
	DailySpins int `koanf:"daily_spins"`
}

// GamesConfig configures the casino mini-games.
type GamesConfig struct {
	Enabled        bool          `koanf:"enabled"`
	MinBet         int64         `koanf:"min_bet"`
	MaxBet         int64         `koanf:"max_bet"`
	RoundsPerMin   int           `koanf:"rounds_per_min"`
	RoundBurst     int           `koanf:"round_burst"`
	MinesGridSize  int           `koanf:"mines_grid_size"`
	MinesCount     int           `koanf:"mines_count"`
	RoundTTL       time.Duration `koanf:"round_ttl"`
	BlackjackDecks int           `koanf:"blackjack_decks"`
}

// BanlistConfig configures the persistent ban cache.
type BanlistConfig struct {
	Path string        `koanf:"path"`
	TTL  time.Duration `koanf:"ttl"`
}

// LoggingConfig configures structured logging output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return strings.EqualFold(s.Environment, "production")
}

// Validate checks the configuration for values that would fail at runtime.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl must be positive, got %s", c.Cache.DefaultTTL)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("security.session_timeout must be positive, got %s", c.Security.SessionTimeout)
	}
	if c.API.DefaultPageSize < 1 || c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size must be 1-%d, got %d", c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.WebhookSecret == "" {
			return fmt.Errorf("telegram.webhook_secret is required when telegram is enabled")
		}
	}
	if c.Revalidate.Enabled && c.Revalidate.URL == "" {
		return fmt.Errorf("revalidate.url is required when revalidation is enabled")
	}
	if c.Wheel.DailySpins < 1 {
		return fmt.Errorf("wheel.daily_spins must be at least 1, got %d", c.Wheel.DailySpins)
	}
	if c.Games.Enabled {
		if c.Games.MinBet < 1 {
			return fmt.Errorf("games.min_bet must be at least 1, got %d", c.Games.MinBet)
		}
		if c.Games.MaxBet < c.Games.MinBet {
			return fmt.Errorf("games.max_bet must be >= games.min_bet")
		}
		if c.Games.MinesCount < 1 || c.Games.MinesCount >= c.Games.MinesGridSize*c.Games.MinesGridSize {
			return fmt.Errorf("games.mines_count must be 1-%d, got %d",
				c.Games.MinesGridSize*c.Games.MinesGridSize-1, c.Games.MinesCount)
		}
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
