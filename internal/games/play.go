// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"context"
	"math/rand"
	"time"

	"github.com/playforge/playforge/internal/models"
)

// BlackjackView is the client-facing state of a blackjack round. The
// dealer hand shows only the up card until the round settles.
type BlackjackView struct {
	RoundID     string `json:"round_id"`
	Bet         int64  `json:"bet"`
	Player      []Card `json:"player"`
	PlayerValue int    `json:"player_value"`
	Dealer      []Card `json:"dealer"`
	DealerValue int    `json:"dealer_value"`
	State       string `json:"state"`
	Outcome     string `json:"outcome,omitempty"`
	Payout      int64  `json:"payout,omitempty"`
	Balance     int64  `json:"balance"`
}

func (s *Service) blackjackView(sess *session, state string, outcome string, payout, balance int64) *BlackjackView {
	bj := sess.blackjack
	view := &BlackjackView{
		RoundID:     sess.roundID,
		Bet:         sess.bet,
		Player:      bj.player,
		PlayerValue: HandValue(bj.player),
		State:       state,
		Outcome:     outcome,
		Payout:      payout,
		Balance:     balance,
	}
	if state == models.GameRoundSettled {
		view.Dealer = bj.dealer
		view.DealerValue = HandValue(bj.dealer)
	} else {
		view.Dealer = bj.dealer[:1]
		view.DealerValue = HandValue(bj.dealer[:1])
	}
	return view
}

// StartBlackjack debits the bet and deals a new hand. A natural 21
// settles immediately.
func (s *Service) StartBlackjack(ctx context.Context, userID, bet int64) (*BlackjackView, error) {
	if err := s.checkPlacement(userID, bet); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID, models.GameBlackjack)
	defer unlock()

	sess := &session{
		roundID:   s.newRoundID(),
		userID:    userID,
		game:      models.GameBlackjack,
		bet:       bet,
		createdAt: time.Now(),
		expiresAt: time.Now().Add(s.roundTTL()),
		blackjack: dealBlackjack(s.cfg.BlackjackDecks, s.newRNG()),
	}

	_, user, err := s.db.PlaceRound(ctx, sess.roundID, userID, models.GameBlackjack, bet)
	if err != nil {
		return nil, err
	}

	if isBlackjack(sess.blackjack.player) {
		sess.blackjack.playDealer()
		outcome, payout := sess.blackjack.resolve(bet)
		s.storeSession(sess) // settle removes it
		_, settledUser, err := s.settle(ctx, sess, payout, outcome)
		if err != nil {
			return nil, err
		}
		return s.blackjackView(sess, models.GameRoundSettled, outcome, payout, settledUser.Points), nil
	}

	s.storeSession(sess)
	return s.blackjackView(sess, models.GameRoundPlaced, "", 0, user.Points), nil
}

// BlackjackHit deals the player one card. Busting settles the round as
// a loss.
func (s *Service) BlackjackHit(ctx context.Context, userID int64, roundID string) (*BlackjackView, error) {
	unlock := s.locks.lock(userID, models.GameBlackjack)
	defer unlock()

	sess, err := s.takeSession(roundID, userID, false)
	if err != nil {
		return nil, err
	}

	if busted := sess.blackjack.hit(); busted {
		_, user, err := s.settle(ctx, sess, 0, OutcomeLose)
		if err != nil {
			return nil, err
		}
		return s.blackjackView(sess, models.GameRoundSettled, OutcomeLose, 0, user.Points), nil
	}

	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.blackjackView(sess, models.GameRoundPlaced, "", 0, user.Points), nil
}

// BlackjackStand ends the player's turn, plays the dealer, and settles.
func (s *Service) BlackjackStand(ctx context.Context, userID int64, roundID string) (*BlackjackView, error) {
	unlock := s.locks.lock(userID, models.GameBlackjack)
	defer unlock()

	sess, err := s.takeSession(roundID, userID, false)
	if err != nil {
		return nil, err
	}

	sess.blackjack.playDealer()
	outcome, payout := sess.blackjack.resolve(sess.bet)
	_, user, err := s.settle(ctx, sess, payout, outcome)
	if err != nil {
		return nil, err
	}
	return s.blackjackView(sess, models.GameRoundSettled, outcome, payout, user.Points), nil
}

// RouletteView is the settled result of a roulette spin. Roulette has
// no in-flight state; a spin places and settles in one request.
type RouletteView struct {
	RoundID string `json:"round_id"`
	Bet     int64  `json:"bet"`
	Kind    string `json:"kind"`
	Number  int    `json:"number,omitempty"`
	Pocket  int    `json:"pocket"`
	Won     bool   `json:"won"`
	Payout  int64  `json:"payout"`
	Balance int64  `json:"balance"`
}

// PlayRoulette debits the stake, spins, and settles immediately.
func (s *Service) PlayRoulette(ctx context.Context, userID, stake int64, kind string, number int) (*RouletteView, error) {
	if err := s.checkPlacement(userID, stake); err != nil {
		return nil, err
	}
	bet, err := ParseRouletteBet(kind, number)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID, models.GameRoulette)
	defer unlock()

	sess := &session{
		roundID:   s.newRoundID(),
		userID:    userID,
		game:      models.GameRoulette,
		bet:       stake,
		createdAt: time.Now(),
		expiresAt: time.Now().Add(s.roundTTL()),
	}

	if _, _, err := s.db.PlaceRound(ctx, sess.roundID, userID, models.GameRoulette, stake); err != nil {
		return nil, err
	}

	pocket := spinRoulette(s.newRNG())
	won, payout := resolveRoulette(bet, pocket, stake)
	s.storeSession(sess)
	_, user, err := s.settle(ctx, sess, payout, rouletteOutcome(won, pocket))
	if err != nil {
		return nil, err
	}

	return &RouletteView{
		RoundID: sess.roundID,
		Bet:     stake,
		Kind:    kind,
		Number:  number,
		Pocket:  pocket,
		Won:     won,
		Payout:  payout,
		Balance: user.Points,
	}, nil
}

// MinesView is the client-facing state of a mines round. Mine positions
// are revealed only after settlement.
type MinesView struct {
	RoundID    string `json:"round_id"`
	Bet        int64  `json:"bet"`
	GridSize   int    `json:"grid_size"`
	MineCount  int    `json:"mine_count"`
	Revealed   []int  `json:"revealed"`
	Multiplier int64  `json:"multiplier"` // hundredths
	State      string `json:"state"`
	Outcome    string `json:"outcome,omitempty"`
	Payout     int64  `json:"payout,omitempty"`
	Mines      []int  `json:"mines,omitempty"`
	Balance    int64  `json:"balance"`
}

func (s *Service) minesView(sess *session, state, outcome string, payout, balance int64) *MinesView {
	m := sess.mines
	view := &MinesView{
		RoundID:    sess.roundID,
		Bet:        sess.bet,
		GridSize:   m.gridSize,
		MineCount:  len(m.mines),
		Revealed:   m.revealedCells(),
		Multiplier: m.multiplier(),
		State:      state,
		Outcome:    outcome,
		Payout:     payout,
		Balance:    balance,
	}
	if state == models.GameRoundSettled {
		for idx := range m.mines {
			view.Mines = append(view.Mines, idx)
		}
	}
	return view
}

// StartMines debits the bet and lays out a fresh board.
func (s *Service) StartMines(ctx context.Context, userID, bet int64) (*MinesView, error) {
	if err := s.checkPlacement(userID, bet); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(userID, models.GameMines)
	defer unlock()

	sess := &session{
		roundID:   s.newRoundID(),
		userID:    userID,
		game:      models.GameMines,
		bet:       bet,
		createdAt: time.Now(),
		expiresAt: time.Now().Add(s.roundTTL()),
		mines:     newMines(s.cfg.MinesGridSize, s.cfg.MinesCount, s.newRNG()),
	}

	_, user, err := s.db.PlaceRound(ctx, sess.roundID, userID, models.GameMines, bet)
	if err != nil {
		return nil, err
	}

	s.storeSession(sess)
	return s.minesView(sess, models.GameRoundPlaced, "", 0, user.Points), nil
}

// MinesReveal uncovers one cell. Hitting a mine settles the round as a
// loss and exposes the board.
func (s *Service) MinesReveal(ctx context.Context, userID int64, roundID string, cell int) (*MinesView, error) {
	unlock := s.locks.lock(userID, models.GameMines)
	defer unlock()

	sess, err := s.takeSession(roundID, userID, false)
	if err != nil {
		return nil, err
	}

	hit, ok := sess.mines.reveal(cell)
	if !ok {
		return nil, ErrCellRevealed
	}
	if hit {
		_, user, err := s.settle(ctx, sess, 0, OutcomeMineHit)
		if err != nil {
			return nil, err
		}
		return s.minesView(sess, models.GameRoundSettled, OutcomeMineHit, 0, user.Points), nil
	}

	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.minesView(sess, models.GameRoundPlaced, "", 0, user.Points), nil
}

// MinesCashout settles the round at the current multiplier.
func (s *Service) MinesCashout(ctx context.Context, userID int64, roundID string) (*MinesView, error) {
	unlock := s.locks.lock(userID, models.GameMines)
	defer unlock()

	sess, err := s.takeSession(roundID, userID, false)
	if err != nil {
		return nil, err
	}

	payout := sess.mines.cashoutPayout(sess.bet)
	_, user, err := s.settle(ctx, sess, payout, OutcomeCashout)
	if err != nil {
		return nil, err
	}
	return s.minesView(sess, models.GameRoundSettled, OutcomeCashout, payout, user.Points), nil
}

// newRNG derives a fresh per-round source so rounds are independent
// and tests can not observe cross-round correlation.
func (s *Service) newRNG() *rand.Rand {
	s.rngMu.Lock()
	seed := s.rng.Int63()
	s.rngMu.Unlock()
	return rand.New(rand.NewSource(seed))
}
