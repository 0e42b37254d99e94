// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package games implements the casino mini-games: blackjack, roulette,
// and mines. Bets debit the user's balance when the round is placed;
// outcomes settle through a single conditional state transition, so a
// round pays out at most once regardless of concurrent requests.
//
// Concurrency control is a mutex keyed by (user, game) plus a per-user
// token-bucket limiter on round placement. In-flight hand state for
// blackjack and mines lives in memory with a TTL; rounds abandoned past
// the TTL are settled as forfeits.
package games

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
	"github.com/playforge/playforge/internal/models"
)

var (
	// ErrGamesDisabled is returned when the games feature is switched off.
	ErrGamesDisabled = errors.New("games are disabled")

	// ErrRateLimited is returned when a user places rounds too quickly.
	ErrRateLimited = errors.New("too many rounds, slow down")

	// ErrBetOutOfRange is returned when the bet is outside configured bounds.
	ErrBetOutOfRange = errors.New("bet out of range")

	// ErrRoundNotFound is returned for unknown or expired in-flight rounds.
	ErrRoundNotFound = errors.New("round not found")

	// ErrNotYourRound is returned when a user acts on another user's round.
	ErrNotYourRound = errors.New("round belongs to another user")

	// ErrCellRevealed is returned for invalid or repeated mines picks.
	ErrCellRevealed = errors.New("cell out of range or already revealed")
)

// SettlementHook observes every settled round. The reward layer uses it
// to invalidate caches and publish events; it must not block.
type SettlementHook func(ctx context.Context, round *models.GameRound, user *models.User)

// session is an unsettled round's in-memory state.
type session struct {
	roundID   string
	userID    int64
	game      string
	bet       int64
	createdAt time.Time
	expiresAt time.Time
	blackjack *blackjackState
	mines     *minesState
}

// Service orchestrates bet placement and settlement.
type Service struct {
	db       *database.DB
	cfg      config.GamesConfig
	locks    *keyedMutex
	limiters *limiterRegistry
	hook     SettlementHook

	mu       sync.Mutex
	sessions map[string]*session

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates the games service. hook may be nil.
func NewService(db *database.DB, cfg config.GamesConfig, hook SettlementHook) *Service {
	return &Service{
		db:       db,
		cfg:      cfg,
		locks:    newKeyedMutex(),
		limiters: newLimiterRegistry(cfg.RoundsPerMin, cfg.RoundBurst),
		hook:     hook,
		sessions: make(map[string]*session),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// roundTTL falls back to 10 minutes when unconfigured.
func (s *Service) roundTTL() time.Duration {
	if s.cfg.RoundTTL > 0 {
		return s.cfg.RoundTTL
	}
	return 10 * time.Minute
}

func (s *Service) checkPlacement(userID, bet int64) error {
	if !s.cfg.Enabled {
		return ErrGamesDisabled
	}
	if bet < s.cfg.MinBet || (s.cfg.MaxBet > 0 && bet > s.cfg.MaxBet) {
		return ErrBetOutOfRange
	}
	if !s.limiters.allow(userID) {
		metrics.APIRateLimitHits.WithLabelValues("games").Inc()
		return ErrRateLimited
	}
	return nil
}

func (s *Service) storeSession(sess *session) {
	s.mu.Lock()
	s.sessions[sess.roundID] = sess
	s.mu.Unlock()
}

func (s *Service) takeSession(roundID string, userID int64, remove bool) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[roundID]
	if !ok {
		return nil, ErrRoundNotFound
	}
	if sess.userID != userID {
		return nil, ErrNotYourRound
	}
	if remove {
		delete(s.sessions, roundID)
	}
	return sess, nil
}

// settle finalizes a round in the store, drops its session, records
// metrics, and fires the settlement hook.
func (s *Service) settle(ctx context.Context, sess *session, payout int64, outcome string) (*models.GameRound, *models.User, error) {
	round, user, err := s.db.SettleRound(ctx, sess.roundID, payout, outcome)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sess.roundID)
	s.mu.Unlock()

	result := "lose"
	if payout > sess.bet {
		result = "win"
	} else if payout == sess.bet {
		result = "push"
	}
	metrics.RecordGameRound(sess.game, result, time.Since(sess.createdAt))

	if s.hook != nil {
		s.hook(ctx, round, user)
	}
	return round, user, nil
}

// Round returns a stored round for the given user.
func (s *Service) Round(ctx context.Context, userID int64, roundID string) (*models.GameRound, error) {
	round, err := s.db.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.UserID != userID {
		return nil, ErrNotYourRound
	}
	return round, nil
}

// History lists a user's recent rounds.
func (s *Service) History(ctx context.Context, userID int64, limit, offset int) ([]models.GameRound, error) {
	return s.db.ListRounds(ctx, userID, limit, offset)
}

// Serve sweeps expired sessions until ctx is cancelled. Implements the
// supervisor service contract.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweepExpired(ctx)
		}
	}
}

// String identifies the service in supervisor logs.
func (s *Service) String() string {
	return "games-session-sweeper"
}

// sweepExpired forfeits rounds whose session passed its TTL. The bet
// was debited at placement; an abandoned round settles with no payout.
func (s *Service) sweepExpired(ctx context.Context) {
	now := time.Now()

	s.mu.Lock()
	var expired []*session
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		unlock := s.locks.lock(sess.userID, sess.game)
		round, user, err := s.db.SettleRound(ctx, sess.roundID, 0, "expired")
		unlock()
		if err != nil {
			if !errors.Is(err, database.ErrRoundSettled) {
				logging.Error().Err(err).Str("round_id", sess.roundID).Msg("failed to expire round")
			}
			continue
		}
		metrics.RecordGameRound(sess.game, "expired", now.Sub(sess.createdAt))
		if s.hook != nil {
			s.hook(ctx, round, user)
		}
		logging.Info().
			Str("round_id", sess.roundID).
			Int64("user_id", sess.userID).
			Str("game", sess.game).
			Msg("expired abandoned round")
	}
}

func (s *Service) newRoundID() string {
	return uuid.New().String()
}
