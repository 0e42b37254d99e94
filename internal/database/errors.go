// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package database

import "errors"

// Sentinel errors returned by store operations. Callers match these with
// errors.Is to map business rejections to API responses; a rejection never
// leaves partial state behind.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrNoSpinsLeft        = errors.New("no spins left today")
	ErrOutOfStock         = errors.New("item out of stock")
	ErrLimitReached       = errors.New("per-user limit reached")
	ErrAlreadyClaimed     = errors.New("task already claimed")
	ErrPromoExhausted     = errors.New("promocode uses exhausted")
	ErrPromoExpired       = errors.New("promocode expired")
	ErrPromoRedeemed      = errors.New("promocode already redeemed")
	ErrEventNotOpen       = errors.New("ticket event is not open")
	ErrEventNotClosed     = errors.New("ticket event is not closed")
	ErrNoTicketsSold      = errors.New("no tickets sold")
	ErrRoundSettled       = errors.New("game round already settled")
)
