// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package models

import "time"

// APIResponse is the standard JSON envelope for every endpoint.
// Success mirrors the presence/absence of Error so clients can branch on a
// single boolean.
type APIResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response timing information.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the error payload of an APIResponse.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RoleAdmin is the only back-office role. Admin permission granularity is
// intentionally flat; the JWT carries this role claim.
const RoleAdmin = "admin"

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful admin authentication.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// LeaderboardResponse is the cached leaderboard aggregate plus paging info.
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
	Total   int                `json:"total"`
	Limit   int                `json:"limit"`
	Offset  int                `json:"offset"`
}

// ShopItemView is a ShopItem merged with the requesting user's own purchase
// state. Only the embedded item may come from the shared cache; the
// user-scoped fields are computed per request.
type ShopItemView struct {
	ShopItem
	PurchasedByUser int  `json:"purchased_by_user"`
	RemainingForUser int `json:"remaining_for_user"`
}

// TaskView is a Task merged with the requesting user's claim state.
type TaskView struct {
	Task
	Claimed bool `json:"claimed"`
}

// SpinResult is the settled outcome of a wheel spin.
type SpinResult struct {
	Prize     WheelPrize `json:"prize"`
	Points    int64      `json:"points"`
	Balance   int64      `json:"balance"`
	SpinsLeft int        `json:"spins_left"`
}

// GameResult is the settled outcome of a mini-game round.
type GameResult struct {
	Round   GameRound `json:"round"`
	Balance int64     `json:"balance"`
}
