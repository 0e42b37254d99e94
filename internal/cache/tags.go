// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// Invalidation tags. The mutation-to-tag mapping is a closed table, not
// inferred: every handler that writes one of the backing tables invalidates
// the listed tag(s) before returning success.
//
//	wheel prizes            -> TagWheel
//	shop items              -> TagShop
//	tasks                   -> TagTasks
//	social links            -> TagSocial
//	sponsors                -> TagSponsors
//	rank thresholds         -> TagLeaderboard
//	ban/unban               -> TagLeaderboard (+ banlist store by user id)
//	any points/xp change    -> TagLeaderboard
//	ticket events           -> TagTickets
const (
	TagWheel       = "wheel"
	TagShop        = "shop"
	TagTasks       = "tasks"
	TagSocial      = "social"
	TagSponsors    = "sponsors"
	TagLeaderboard = "leaderboard"
	TagTickets     = "tickets"
)

// GenerateKey creates a cache key from a name and its parameters, hashing
// the JSON-encoded parameters for a compact, stable key.
func GenerateKey(name string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", name, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", name, hash[:16])
}
