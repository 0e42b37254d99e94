// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package reward owns the mutation contract every balance-changing flow
// follows: persist the change, invalidate the mapped cache tags,
// publish a settlement event, and fire the frontend revalidation hook.
// Only the persist step can fail the request; everything after it is
// logged and counted but never propagated.
package reward

import (
	"context"

	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/events"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
	"github.com/playforge/playforge/internal/models"
)

// Mutation reasons. These appear in point history rows, settlement
// events, and metrics labels.
const (
	ReasonWheelSpin      = "wheel_spin"
	ReasonTaskClaim      = "task_claim"
	ReasonShopPurchase   = "shop_purchase"
	ReasonPromoRedeem    = "promo_redeem"
	ReasonTicketPurchase = "ticket_purchase"
	ReasonGameSettlement = "game_settlement"
	ReasonAdminAdjust    = "admin_adjust"
	ReasonSignupBonus    = "signup_bonus"
)

// invalidationRules is the closed mutation-to-tag mapping. Handlers
// never derive tags ad hoc; a new mutation kind gets a row here.
var invalidationRules = map[string][]string{
	ReasonWheelSpin:      {cache.TagWheel, cache.TagLeaderboard},
	ReasonTaskClaim:      {cache.TagTasks, cache.TagLeaderboard},
	ReasonShopPurchase:   {cache.TagShop, cache.TagLeaderboard},
	ReasonPromoRedeem:    {cache.TagLeaderboard},
	ReasonTicketPurchase: {cache.TagTickets, cache.TagLeaderboard},
	ReasonGameSettlement: {cache.TagLeaderboard},
	ReasonAdminAdjust:    {cache.TagLeaderboard},
	ReasonSignupBonus:    {cache.TagLeaderboard},
}

// revalidatePaths maps cache tags to the frontend pages rendered from
// them.
var revalidatePaths = map[string]string{
	cache.TagWheel:       "/wheel",
	cache.TagShop:        "/shop",
	cache.TagTasks:       "/tasks",
	cache.TagSocial:      "/",
	cache.TagSponsors:    "/",
	cache.TagLeaderboard: "/leaderboard",
	cache.TagTickets:     "/raffles",
}

// Service applies reward mutations and runs their post-commit fan-out.
type Service struct {
	db    *database.DB
	cache *cache.Cache
	bus   *events.Bus
	reval Revalidator
}

// Revalidator is the best-effort frontend hook. Trigger never returns
// an error; the client bounds each call with its own timeout.
type Revalidator interface {
	Trigger(ctx context.Context, paths ...string)
}

// NewService wires the mutation path. bus and reval may be nil in tests.
func NewService(db *database.DB, c *cache.Cache, bus *events.Bus, reval Revalidator) *Service {
	return &Service{db: db, cache: c, bus: bus, reval: reval}
}

// Apply is the direct-mutation entry point: a single points/xp change
// with no side tables beyond point history. Wheel spins, promo credits,
// and admin edits go through here.
func (s *Service) Apply(ctx context.Context, userID, pointsDelta, xpDelta int64, reason, actor string) (*models.User, error) {
	user, err := s.db.ApplyReward(ctx, userID, pointsDelta, xpDelta, reason, actor)
	if err != nil {
		metrics.RecordSettlement(reason, "rejected", 0)
		return nil, err
	}
	s.Settled(ctx, user, reason, pointsDelta, xpDelta)
	return user, nil
}

// Settled runs the post-commit half of the contract for flows that
// carry their own store transaction (purchases, claims, redemptions,
// ticket buys, game settlements). It must be called after the
// transaction committed, with the post-mutation user.
func (s *Service) Settled(ctx context.Context, user *models.User, reason string, pointsDelta, xpDelta int64) {
	metrics.RecordSettlement(reason, "success", pointsDelta)

	tags, ok := invalidationRules[reason]
	if !ok {
		// Unknown reasons still dirty the leaderboard; every mutation
		// changes points or xp.
		tags = []string{cache.TagLeaderboard}
		logging.Warn().Str("reason", reason).Msg("mutation reason missing from invalidation table")
	}
	s.Invalidate(tags...)

	if s.bus != nil {
		ev := events.NewRewardEvent(user.ID, reason, pointsDelta, xpDelta, user.Points)
		if err := s.bus.PublishReward(ev); err != nil {
			logging.Error().Err(err).Str("reason", reason).Int64("user_id", user.ID).
				Msg("failed to publish settlement event")
		}
	}

	if s.reval != nil {
		paths := make([]string, 0, len(tags))
		for _, tag := range tags {
			if p, ok := revalidatePaths[tag]; ok {
				paths = append(paths, p)
			}
		}
		s.reval.Trigger(ctx, paths...)
	}
}

// Invalidate removes all cached entries under the given tags. Failures
// cannot occur structurally (the cache is in-process), but fan-out
// sizes are recorded for observability.
func (s *Service) Invalidate(tags ...string) {
	if s.cache == nil {
		return
	}
	for _, tag := range tags {
		removed := s.cache.InvalidateTag(tag)
		metrics.RecordInvalidation(tag, removed)
		logging.Debug().Str("tag", tag).Int("removed", removed).Msg("cache tag invalidated")
	}
}

// CatalogChanged invalidates tags for non-balance mutations (admin CRUD
// on prizes, items, tasks, sponsors, links, ranks, ticket events) and
// revalidates the affected pages.
func (s *Service) CatalogChanged(ctx context.Context, tags ...string) {
	s.Invalidate(tags...)
	if s.reval != nil {
		paths := make([]string, 0, len(tags))
		for _, tag := range tags {
			if p, ok := revalidatePaths[tag]; ok {
				paths = append(paths, p)
			}
		}
		s.reval.Trigger(ctx, paths...)
	}
}

// GameHook adapts the service to the games settlement callback. The
// round's own history rows are written by the store; here we only run
// the fan-out with the net delta.
func (s *Service) GameHook() func(ctx context.Context, round *models.GameRound, user *models.User) {
	return func(ctx context.Context, round *models.GameRound, user *models.User) {
		s.Settled(ctx, user, ReasonGameSettlement, round.Payout-round.Bet, 0)
	}
}

// Announce publishes an operator broadcast on the bus.
func (s *Service) Announce(title, body string) error {
	if s.bus == nil {
		return nil
	}
	ev := events.NewBroadcastEvent(title, body)
	if err := s.bus.PublishBroadcast(ev); err != nil {
		return err
	}
	metrics.BroadcastsSent.Inc()
	return nil
}
