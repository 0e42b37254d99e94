// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package main provides the Playforge HTTP server
//
// Playforge is a gamified community platform: members earn points and XP
// through a daily prize wheel, tasks, and promocodes, then spend them in
// the shop, on raffle tickets, or in casino mini-games.
//
// @title Playforge API
// @version 1.0
// @description Gamified community platform API
// @description
// @description ## Features
// @description
// @description - **Prize Wheel**: Daily weighted spins with a per-user budget
// @description - **Shop**: Point-priced catalog with stock and per-user limits
// @description - **Tasks & Promocodes**: One-shot point and XP rewards
// @description - **Raffles**: Ticket events with an admin-drawn winner
// @description - **Mini-games**: Blackjack, roulette, and mines with settled payouts
// @description - **Live Updates**: WebSocket announcements for rewards and broadcasts
// @description - **Telegram Bot**: Balance, spins, and broadcast delivery in chat
// @description
// @description ## Authentication
// @description
// @description Public endpoints identify the member via a `user_id` parameter.
// @description Admin endpoints require a JWT bearer token obtained from `/api/v1/auth/login`.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address.
// @description Login attempts are limited to 5 per 5 minutes; game rounds carry a per-user budget.
// @description
// @description ## Caching
// @description
// @description Shared catalog reads (wheel, shop, tasks, ranks, sponsors, social, tickets,
// @description leaderboard) are served from a tag-indexed TTL cache and carry `Cache-Control`
// @description and `ETag` headers. Mutations invalidate the affected tags before responding.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "success": false,
// @description   "error": {
// @description     "code": "ERROR_CODE",
// @description     "message": "Human-readable error message"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-08-31T12:34:56Z"
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/playforge/playforge/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT bearer token. Obtain via /api/v1/auth/login and send as "Bearer <token>".
//
// @tag.name health
// @tag.description Health and readiness probes
//
// @tag.name public
// @tag.description Cached catalog reads and per-user views
//
// @tag.name rewards
// @tag.description Point-mutating operations (spins, purchases, claims, redemptions)
//
// @tag.name games
// @tag.description Casino mini-game rounds and history
//
// @tag.name admin
// @tag.description Back-office operations requiring a JWT bearer token
package main
