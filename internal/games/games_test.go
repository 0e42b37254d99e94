// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/models"
)

func TestHandValue(t *testing.T) {
	tests := []struct {
		name string
		hand []Card
		want int
	}{
		{"hard total", []Card{{Rank: 10}, {Rank: 7}}, 17},
		{"face cards count ten", []Card{{Rank: 13}, {Rank: 12}}, 20},
		{"soft ace", []Card{{Rank: 1}, {Rank: 6}}, 17},
		{"ace demoted on bust", []Card{{Rank: 1}, {Rank: 6}, {Rank: 9}}, 16},
		{"natural", []Card{{Rank: 1}, {Rank: 11}}, 21},
		{"two aces", []Card{{Rank: 1}, {Rank: 1}}, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandValue(tt.hand); got != tt.want {
				t.Fatalf("HandValue = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBlackjackResolve(t *testing.T) {
	tests := []struct {
		name       string
		player     []Card
		dealer     []Card
		wantOut    string
		wantPayout int64
	}{
		{"player bust loses", []Card{{Rank: 10}, {Rank: 9}, {Rank: 5}}, []Card{{Rank: 10}, {Rank: 7}}, OutcomeLose, 0},
		{"natural pays three to two", []Card{{Rank: 1}, {Rank: 10}}, []Card{{Rank: 10}, {Rank: 7}}, OutcomeBlackjack, 250},
		{"both naturals push", []Card{{Rank: 1}, {Rank: 10}}, []Card{{Rank: 10}, {Rank: 1}}, OutcomePush, 100},
		{"higher hand wins", []Card{{Rank: 10}, {Rank: 10}}, []Card{{Rank: 10}, {Rank: 8}}, OutcomeWin, 200},
		{"dealer bust wins", []Card{{Rank: 10}, {Rank: 2}}, []Card{{Rank: 10}, {Rank: 6}, {Rank: 10}}, OutcomeWin, 200},
		{"lower hand loses", []Card{{Rank: 10}, {Rank: 7}}, []Card{{Rank: 10}, {Rank: 9}}, OutcomeLose, 0},
		{"equal hands push", []Card{{Rank: 10}, {Rank: 8}}, []Card{{Rank: 10}, {Rank: 8}}, OutcomePush, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &blackjackState{player: tt.player, dealer: tt.dealer}
			out, payout := s.resolve(100)
			if out != tt.wantOut || payout != tt.wantPayout {
				t.Fatalf("resolve = (%s, %d), want (%s, %d)", out, payout, tt.wantOut, tt.wantPayout)
			}
		})
	}
}

func TestDealerStandsOnSeventeen(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		s := dealBlackjack(1, rng)
		s.playDealer()
		if v := HandValue(s.dealer); v < 17 {
			t.Fatalf("dealer stopped below 17: %d", v)
		}
	}
}

func TestParseRouletteBet(t *testing.T) {
	if _, err := ParseRouletteBet("corner", 0); err == nil {
		t.Fatal("expected error for unknown bet kind")
	}
	if _, err := ParseRouletteBet(RouletteBetStraight, 37); err == nil {
		t.Fatal("expected error for out-of-range straight number")
	}
	if _, err := ParseRouletteBet(RouletteBetStraight, 0); err != nil {
		t.Fatalf("zero is a valid straight bet: %v", err)
	}
}

func TestResolveRoulette(t *testing.T) {
	tests := []struct {
		name       string
		kind       string
		number     int
		pocket     int
		wantWon    bool
		wantPayout int64
	}{
		{"straight hit", RouletteBetStraight, 17, 17, true, 360},
		{"straight miss", RouletteBetStraight, 17, 18, false, 0},
		{"red hit", RouletteBetRed, 0, 32, true, 20},
		{"black on zero loses", RouletteBetBlack, 0, 0, false, 0},
		{"even on zero loses", RouletteBetEven, 0, 0, false, 0},
		{"odd hit", RouletteBetOdd, 0, 17, true, 20},
		{"low hit", RouletteBetLow, 0, 18, true, 20},
		{"high miss", RouletteBetHigh, 0, 18, false, 0},
		{"first dozen hit", RouletteBetDozen1, 0, 12, true, 30},
		{"third dozen hit", RouletteBetDozen3, 0, 25, true, 30},
		{"dozen on zero loses", RouletteBetDozen1, 0, 0, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet, err := ParseRouletteBet(tt.kind, tt.number)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			won, payout := resolveRoulette(bet, tt.pocket, 10)
			if won != tt.wantWon || payout != tt.wantPayout {
				t.Fatalf("resolve = (%v, %d), want (%v, %d)", won, payout, tt.wantWon, tt.wantPayout)
			}
		})
	}
}

func TestMinesRevealAndMultiplier(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newMines(5, 3, rng)

	if m.multiplier() != multiplierBasis {
		t.Fatalf("fresh board multiplier = %d, want %d", m.multiplier(), multiplierBasis)
	}

	// Find a safe cell and reveal it.
	safe := -1
	for i := 0; i < m.cells(); i++ {
		if !m.mines[i] {
			safe = i
			break
		}
	}
	hit, ok := m.reveal(safe)
	if hit || !ok {
		t.Fatalf("reveal(%d) = (%v, %v), want safe", safe, hit, ok)
	}
	if m.multiplier() <= multiplierBasis {
		t.Fatalf("multiplier did not grow after safe reveal: %d", m.multiplier())
	}

	// Repeat reveal is rejected.
	if _, ok := m.reveal(safe); ok {
		t.Fatal("expected repeated reveal to be rejected")
	}
	if _, ok := m.reveal(m.cells()); ok {
		t.Fatal("expected out-of-range reveal to be rejected")
	}

	// A mine cell reports the hit.
	for i := 0; i < m.cells(); i++ {
		if m.mines[i] {
			hit, ok := m.reveal(i)
			if !hit || !ok {
				t.Fatalf("reveal(mine) = (%v, %v), want hit", hit, ok)
			}
			break
		}
	}
}

func newTestService(t *testing.T, hook SettlementHook) (*Service, *database.DB) {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.GamesConfig{
		Enabled:        true,
		MinBet:         10,
		MaxBet:         1000,
		RoundsPerMin:   600,
		RoundBurst:     100,
		MinesGridSize:  5,
		MinesCount:     3,
		RoundTTL:       time.Minute,
		BlackjackDecks: 1,
	}
	return NewService(db, cfg, hook), db
}

func seedPlayer(t *testing.T, db *database.DB, id int64, points int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := db.UpsertUser(ctx, id, "player", "Player"); err != nil {
		t.Fatalf("upsert user: %v", err)
	}
	if _, err := db.ApplyReward(ctx, id, points, 0, "seed", "test"); err != nil {
		t.Fatalf("seed points: %v", err)
	}
}

func TestStartBlackjackDebitsBet(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.StartBlackjack(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(view.Player) != 2 {
		t.Fatalf("expected 2 player cards, got %d", len(view.Player))
	}

	if view.State == models.GameRoundPlaced {
		if len(view.Dealer) != 1 {
			t.Fatalf("unsettled round must hide the hole card, got %d dealer cards", len(view.Dealer))
		}
		if view.Balance != 400 {
			t.Fatalf("balance = %d, want 400", view.Balance)
		}
	}
}

func TestBlackjackStandSettlesOnce(t *testing.T) {
	var settled int
	svc, db := newTestService(t, func(_ context.Context, round *models.GameRound, user *models.User) {
		settled++
	})
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.StartBlackjack(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.State == models.GameRoundSettled {
		t.Skip("dealt a natural, round settled at deal")
	}

	final, err := svc.BlackjackStand(ctx, 1, view.RoundID)
	if err != nil {
		t.Fatalf("stand: %v", err)
	}
	if final.State != models.GameRoundSettled {
		t.Fatalf("state = %q, want settled", final.State)
	}
	if settled != 1 {
		t.Fatalf("settlement hook fired %d times, want 1", settled)
	}

	// The session is gone; standing again fails.
	if _, err := svc.BlackjackStand(ctx, 1, view.RoundID); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}

	round, err := svc.Round(ctx, 1, view.RoundID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if round.State != models.GameRoundSettled {
		t.Fatalf("stored state = %q, want settled", round.State)
	}
}

func TestBlackjackRejectsOtherUsersRound(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	seedPlayer(t, db, 2, 500)
	ctx := context.Background()

	view, err := svc.StartBlackjack(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if view.State == models.GameRoundSettled {
		t.Skip("dealt a natural, round settled at deal")
	}

	if _, err := svc.BlackjackHit(ctx, 2, view.RoundID); !errors.Is(err, ErrNotYourRound) {
		t.Fatalf("expected ErrNotYourRound, got %v", err)
	}
}

func TestBetValidation(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 5000)
	ctx := context.Background()

	if _, err := svc.StartBlackjack(ctx, 1, 5); !errors.Is(err, ErrBetOutOfRange) {
		t.Fatalf("expected ErrBetOutOfRange for tiny bet, got %v", err)
	}
	if _, err := svc.StartBlackjack(ctx, 1, 2000); !errors.Is(err, ErrBetOutOfRange) {
		t.Fatalf("expected ErrBetOutOfRange for huge bet, got %v", err)
	}
}

func TestInsufficientPointsRejectsBet(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 50)
	ctx := context.Background()

	if _, err := svc.StartBlackjack(ctx, 1, 100); !errors.Is(err, database.ErrInsufficientPoints) {
		t.Fatalf("expected ErrInsufficientPoints, got %v", err)
	}
}

func TestGamesDisabled(t *testing.T) {
	svc, db := newTestService(t, nil)
	svc.cfg.Enabled = false
	seedPlayer(t, db, 1, 500)

	if _, err := svc.PlayRoulette(context.Background(), 1, 100, RouletteBetRed, 0); !errors.Is(err, ErrGamesDisabled) {
		t.Fatalf("expected ErrGamesDisabled, got %v", err)
	}
}

func TestPlacementRateLimit(t *testing.T) {
	svc, db := newTestService(t, nil)
	svc.limiters = newLimiterRegistry(1, 2)
	seedPlayer(t, db, 1, 100000)
	ctx := context.Background()

	var limited bool
	for i := 0; i < 5; i++ {
		_, err := svc.PlayRoulette(ctx, 1, 10, RouletteBetRed, 0)
		if errors.Is(err, ErrRateLimited) {
			limited = true
			break
		}
		if err != nil {
			t.Fatalf("roulette: %v", err)
		}
	}
	if !limited {
		t.Fatal("expected rate limit to trigger")
	}
}

func TestPlayRouletteSettlesImmediately(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.PlayRoulette(ctx, 1, 100, RouletteBetRed, 0)
	if err != nil {
		t.Fatalf("roulette: %v", err)
	}
	if view.Pocket < 0 || view.Pocket > 36 {
		t.Fatalf("pocket %d out of range", view.Pocket)
	}

	wantBalance := int64(400) + view.Payout
	if view.Balance != wantBalance {
		t.Fatalf("balance = %d, want %d", view.Balance, wantBalance)
	}

	round, err := svc.Round(ctx, 1, view.RoundID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if round.State != models.GameRoundSettled {
		t.Fatalf("roulette round not settled: %q", round.State)
	}
}

func TestMinesCashout(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.StartMines(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start mines: %v", err)
	}
	if view.Balance != 400 {
		t.Fatalf("balance after bet = %d, want 400", view.Balance)
	}

	// Reveal safe cells until one sticks, then cash out.
	sess, err := svc.takeSession(view.RoundID, 1, false)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	safe := -1
	for i := 0; i < sess.mines.cells(); i++ {
		if !sess.mines.mines[i] {
			safe = i
			break
		}
	}

	mid, err := svc.MinesReveal(ctx, 1, view.RoundID, safe)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if mid.State != models.GameRoundPlaced {
		t.Fatalf("state after safe reveal = %q", mid.State)
	}

	final, err := svc.MinesCashout(ctx, 1, view.RoundID)
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if final.Outcome != OutcomeCashout {
		t.Fatalf("outcome = %q", final.Outcome)
	}
	if final.Payout <= 100 {
		t.Fatalf("payout %d should exceed stake after a safe reveal", final.Payout)
	}
	if len(final.Mines) == 0 {
		t.Fatal("settled view must expose mine positions")
	}
}

func TestMinesHitSettlesLoss(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.StartMines(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start mines: %v", err)
	}

	sess, err := svc.takeSession(view.RoundID, 1, false)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	mine := -1
	for i := 0; i < sess.mines.cells(); i++ {
		if sess.mines.mines[i] {
			mine = i
			break
		}
	}

	final, err := svc.MinesReveal(ctx, 1, view.RoundID, mine)
	if err != nil {
		t.Fatalf("reveal mine: %v", err)
	}
	if final.Outcome != OutcomeMineHit || final.Payout != 0 {
		t.Fatalf("outcome = (%q, %d), want mine_hit with no payout", final.Outcome, final.Payout)
	}
	if final.Balance != 400 {
		t.Fatalf("balance = %d, want 400", final.Balance)
	}
}

func TestSweepExpiredForfeitsRound(t *testing.T) {
	svc, db := newTestService(t, nil)
	seedPlayer(t, db, 1, 500)
	ctx := context.Background()

	view, err := svc.StartMines(ctx, 1, 100)
	if err != nil {
		t.Fatalf("start mines: %v", err)
	}

	svc.mu.Lock()
	svc.sessions[view.RoundID].expiresAt = time.Now().Add(-time.Second)
	svc.mu.Unlock()

	svc.sweepExpired(ctx)

	round, err := svc.Round(ctx, 1, view.RoundID)
	if err != nil {
		t.Fatalf("get round: %v", err)
	}
	if round.State != models.GameRoundSettled || round.Outcome != "expired" {
		t.Fatalf("round = (%q, %q), want settled expired", round.State, round.Outcome)
	}
	if round.Payout != 0 {
		t.Fatalf("expired round paid out %d", round.Payout)
	}
}
