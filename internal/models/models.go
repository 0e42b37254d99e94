// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package models defines the domain entities shared between the database,
// reward, and API layers.
package models

import "time"

// User is a platform member, keyed by their Telegram user id.
type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	FirstName      string     `json:"first_name,omitempty"`
	Points         int64      `json:"points"`
	XP             int64      `json:"xp"`
	IsBanned       bool       `json:"is_banned"`
	DailySpinsLeft int        `json:"daily_spins_left"`
	LastSpinReset  *time.Time `json:"last_spin_reset,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Rank is an XP threshold tier. A user's rank is derived from their XP at
// query time, never stored on the user row.
type Rank struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	MinXP     int64  `json:"min_xp"`
	SortOrder int    `json:"sort_order"`
}

// WheelPrize is one segment of the prize wheel. Weight is the relative
// probability of the segment in the draw pool; inactive prizes are excluded
// from the pool entirely.
type WheelPrize struct {
	ID        int64     `json:"id"`
	Label     string    `json:"label"`
	Points    int64     `json:"points"`
	Weight    float64   `json:"weight"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SpinHistory records one settled wheel spin. Append-only.
type SpinHistory struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PrizeID   int64     `json:"prize_id"`
	Label     string    `json:"label"`
	Points    int64     `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// ShopItem is a purchasable catalog entry. Stock < 0 means unlimited.
type ShopItem struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        int64     `json:"price"`
	Stock        int       `json:"stock"`
	PerUserLimit int       `json:"per_user_limit"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Purchase records one completed shop purchase. Append-only.
type Purchase struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ItemID    int64     `json:"item_id"`
	PricePaid int64     `json:"price_paid"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is a claimable activity (subscribe, join, invite, ...) rewarding
// points and XP once per user.
type Task struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	URL          string    `json:"url,omitempty"`
	RewardPoints int64     `json:"reward_points"`
	RewardXP     int64     `json:"reward_xp"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Promocode is a redeemable code granting points. A code may be limited by
// total uses, expiry, or deactivation; each user may redeem it once.
type Promocode struct {
	ID        int64      `json:"id"`
	Code      string     `json:"code"`
	Points    int64      `json:"points"`
	MaxUses   int        `json:"max_uses"`
	UsedCount int        `json:"used_count"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// Sponsor is a partner shown on the public sponsors strip.
type Sponsor struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	LogoURL   string    `json:"logo_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// SocialLink is a public social media link.
type SocialLink struct {
	ID        int64     `json:"id"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketEvent lifecycle states.
const (
	TicketEventOpen   = "open"
	TicketEventClosed = "closed"
	TicketEventDrawn  = "drawn"
)

// TicketEvent is a raffle: users buy tickets with points until the event
// closes, then an admin draw picks a winning ticket.
type TicketEvent struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	TicketPrice int64      `json:"ticket_price"`
	MaxTickets  int        `json:"max_tickets"`
	SoldTickets int        `json:"sold_tickets"`
	Status      string     `json:"status"`
	WinnerID    *int64     `json:"winner_id,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Ticket is one raffle entry. Append-only.
type Ticket struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PointHistory is an immutable record of one balance change. Rows are never
// updated or deleted.
type PointHistory struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Delta     int64     `json:"delta"`
	XPDelta   int64     `json:"xp_delta"`
	Reason    string    `json:"reason"`
	Actor     string    `json:"actor"`
	CreatedAt time.Time `json:"created_at"`
}

// Game round states.
const (
	GameRoundPlaced  = "placed"
	GameRoundSettled = "settled"
)

// Supported mini-games.
const (
	GameBlackjack = "blackjack"
	GameRoulette  = "roulette"
	GameMines     = "mines"
)

// GameRound records one mini-game bet and its settlement.
type GameRound struct {
	ID        string     `json:"id"`
	UserID    int64      `json:"user_id"`
	Game      string     `json:"game"`
	Bet       int64      `json:"bet"`
	Payout    int64      `json:"payout"`
	Outcome   string     `json:"outcome,omitempty"`
	State     string     `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

// LeaderboardEntry is one row of the public leaderboard aggregate.
type LeaderboardEntry struct {
	Position int    `json:"position"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Points   int64  `json:"points"`
	XP       int64  `json:"xp"`
	Rank     string `json:"rank"`
}
