// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package main is the entry point for the Playforge server.
//
// Playforge is a gamified community platform: members earn points through a
// daily prize wheel, claimable tasks, promocodes, and casino mini-games, and
// spend them in a shop and on raffle tickets. A Telegram bot registers
// members and answers balance queries; a JWT-protected back office manages
// the catalogs.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional YAML file (Koanf v2)
//  2. Database: DuckDB single-writer store for users, catalogs, and ledgers
//  3. Ban store: BadgerDB-backed banlist consulted on every mutation
//  4. Event bus: in-process Watermill pub/sub for settlement fan-out
//  5. Reward service: the single path for every balance mutation, pairing
//     each write with cache invalidation, event publication, and frontend
//     revalidation
//  6. WebSocket hub and Telegram bot: live event consumers
//  7. HTTP server: public reads through the tag-indexed cache, reward
//     mutations, and the admin surface
//
// All long-lived components run under a suture supervision tree; a crash in
// one layer restarts that layer without taking down the API.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): PLAYFORGE_-prefixed environment variables, a config file,
// then built-in defaults. Required settings:
//
//	PLAYFORGE_SECURITY_JWT_SECRET           32+ character signing secret
//	PLAYFORGE_SECURITY_ADMIN_USERNAME       back-office login
//	PLAYFORGE_SECURITY_ADMIN_PASSWORD_HASH  bcrypt hash of the password
//
// The Telegram bot is optional (PLAYFORGE_TELEGRAM_ENABLED), as is the
// frontend revalidation hook (PLAYFORGE_REVALIDATE_ENABLED).
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the HTTP server
// drains in-flight requests, consumers finish their current message, and
// the database is closed last.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/playforge/playforge/docs" // generated swagger spec
	"github.com/playforge/playforge/internal/api"
	"github.com/playforge/playforge/internal/auth"
	"github.com/playforge/playforge/internal/banlist"
	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/events"
	"github.com/playforge/playforge/internal/games"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/revalidate"
	"github.com/playforge/playforge/internal/reward"
	"github.com/playforge/playforge/internal/supervisor"
	"github.com/playforge/playforge/internal/supervisor/services"
	"github.com/playforge/playforge/internal/telegram"
	ws "github.com/playforge/playforge/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("db_path", cfg.Database.Path).
		Bool("telegram", cfg.Telegram.Enabled).
		Bool("games", cfg.Games.Enabled).
		Msg("Starting Playforge")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	bans, err := banlist.Open(cfg.Banlist.Path, cfg.Banlist.TTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open ban store")
	}
	defer func() {
		if err := bans.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ban store")
		}
	}()

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}
	creds, err := auth.NewCredentialChecker(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize credential checker")
	}

	// Shared response cache plus the full settlement pipeline behind it.
	responseCache := cache.New(cfg.Cache.DefaultTTL)
	bus := events.NewBus()
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	var reval reward.Revalidator
	if cfg.Revalidate.Enabled {
		reval = revalidate.New(cfg.Revalidate)
		logging.Info().Str("url", cfg.Revalidate.URL).Msg("Frontend revalidation enabled")
	}

	rewards := reward.NewService(db, responseCache, bus, reval)
	gamesSvc := games.NewService(db, cfg.Games, rewards.GameHook())

	hub := ws.NewHub()

	router, err := events.NewRouter(nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event router")
	}
	ws.RegisterConsumers(router, bus, hub)

	var bot *telegram.Bot
	if cfg.Telegram.Enabled {
		bot = telegram.NewBot(db, rewards, telegram.NewClient(cfg.Telegram), bans, cfg.Telegram.WebhookSecret)
		telegram.RegisterBroadcastConsumer(router, bus, bot)
		logging.Info().Msg("Telegram bot enabled")
	}

	handler := api.NewHandler(db, responseCache, cfg, rewards, gamesSvc, hub, bans, jwtManager, creds, bot)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler.Routes(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(cache.NewJanitorService(responseCache, cfg.Cache.CleanupInterval))
	tree.AddDataService(banlist.NewGCService(bans, 0))
	if cfg.Games.Enabled {
		tree.AddDataService(gamesSvc)
	}
	tree.AddMessagingService(router)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Playforge stopped gracefully")
}
