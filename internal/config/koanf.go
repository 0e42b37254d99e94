// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/playforge/config.yaml",
	"/etc/playforge/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces all environment overrides: PLAYFORGE_SERVER_PORT etc.
const envPrefix = "PLAYFORGE_"

// defaultConfig returns a Config with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:      "/data/playforge.duckdb",
			MaxMemory: "1GB",
			Threads:   0,
		},
		Cache: CacheConfig{
			DefaultTTL:      5 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
		Security: SecurityConfig{
			JWTSecret:         "",
			SessionTimeout:    24 * time.Hour,
			AdminUsername:     "",
			AdminPasswordHash: "",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Telegram: TelegramConfig{
			Enabled:     false,
			APIBaseURL:  "https://api.telegram.org",
			SendTimeout: 10 * time.Second,
		},
		Revalidate: RevalidateConfig{
			Enabled: false,
			Timeout: 3 * time.Second,
		},
		Wheel: WheelConfig{
			DailySpins: 1,
		},
		Games: GamesConfig{
			Enabled:        true,
			MinBet:         10,
			MaxBet:         10000,
			RoundsPerMin:   30,
			RoundBurst:     5,
			MinesGridSize:  5,
			MinesCount:     3,
			RoundTTL:       10 * time.Minute,
			BlackjackDecks: 1,
		},
		Banlist: BanlistConfig{
			Path: "/data/banlist",
			TTL:  0, // 0 = bans never expire
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. PLAYFORGE_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	// PLAYFORGE_SERVER_PORT -> server.port
	// PLAYFORGE_SECURITY_JWT_SECRET -> security.jwt_secret
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Env vars arrive as strings; comma-split known slice fields.
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML): skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// sectionNames are the top-level config sections; the env transform maps the
// first underscore-delimited token to a section and the rest to a key within
// it, so PLAYFORGE_SECURITY_JWT_SECRET becomes security.jwt_secret.
var sectionNames = map[string]bool{
	"server":     true,
	"database":   true,
	"cache":      true,
	"security":   true,
	"api":        true,
	"telegram":   true,
	"revalidate": true,
	"wheel":      true,
	"games":      true,
	"banlist":    true,
	"logging":    true,
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unrecognized variables map to empty string and are skipped, so stray
// PLAYFORGE_* variables cannot pollute the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))

	section, rest, found := strings.Cut(key, "_")
	if !found || !sectionNames[section] {
		return ""
	}

	return section + "." + rest
}
