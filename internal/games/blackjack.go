// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"math/rand"
)

// Blackjack outcomes.
const (
	OutcomeBlackjack = "blackjack"
	OutcomeWin       = "win"
	OutcomeLose      = "lose"
	OutcomePush      = "push"
)

// Card is a single playing card. Rank 1 is the ace, 11-13 are face
// cards. Suits are cosmetic and carried only for client display.
type Card struct {
	Rank int    `json:"rank"`
	Suit string `json:"suit"`
}

var suits = []string{"spades", "hearts", "diamonds", "clubs"}

// Value returns the blackjack value of the card. Aces count as 1 here;
// HandValue promotes one ace to 11 when it does not bust.
func (c Card) Value() int {
	if c.Rank > 10 {
		return 10
	}
	return c.Rank
}

// newShoe builds and shuffles a shoe of the given number of decks.
func newShoe(decks int, rng *rand.Rand) []Card {
	if decks <= 0 {
		decks = 1
	}
	shoe := make([]Card, 0, decks*52)
	for d := 0; d < decks; d++ {
		for _, suit := range suits {
			for rank := 1; rank <= 13; rank++ {
				shoe = append(shoe, Card{Rank: rank, Suit: suit})
			}
		}
	}
	rng.Shuffle(len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})
	return shoe
}

// HandValue returns the best blackjack value of a hand, counting one
// ace as 11 when that does not bust.
func HandValue(hand []Card) int {
	total := 0
	aces := 0
	for _, c := range hand {
		total += c.Value()
		if c.Rank == 1 {
			aces++
		}
	}
	if aces > 0 && total+10 <= 21 {
		total += 10
	}
	return total
}

// isBlackjack reports a natural: two cards totalling 21.
func isBlackjack(hand []Card) bool {
	return len(hand) == 2 && HandValue(hand) == 21
}

// blackjackState is the in-flight hand of an unsettled round.
type blackjackState struct {
	shoe   []Card
	player []Card
	dealer []Card
}

func dealBlackjack(decks int, rng *rand.Rand) *blackjackState {
	s := &blackjackState{shoe: newShoe(decks, rng)}
	s.player = append(s.player, s.draw(), s.draw())
	s.dealer = append(s.dealer, s.draw())
	return s
}

func (s *blackjackState) draw() Card {
	c := s.shoe[0]
	s.shoe = s.shoe[1:]
	return c
}

// hit deals one card to the player. Returns true if the player busted.
func (s *blackjackState) hit() bool {
	s.player = append(s.player, s.draw())
	return HandValue(s.player) > 21
}

// playDealer draws dealer cards until the hand reaches 17. The dealer
// stands on all 17s.
func (s *blackjackState) playDealer() {
	for HandValue(s.dealer) < 17 {
		s.dealer = append(s.dealer, s.draw())
	}
}

// resolve compares hands after the dealer has played and returns the
// outcome and the payout for the given bet. Payout includes the
// returned stake; a natural pays 3:2.
func (s *blackjackState) resolve(bet int64) (string, int64) {
	playerValue := HandValue(s.player)
	if playerValue > 21 {
		return OutcomeLose, 0
	}
	if isBlackjack(s.player) {
		if isBlackjack(s.dealer) {
			return OutcomePush, bet
		}
		return OutcomeBlackjack, bet + bet*3/2
	}

	dealerValue := HandValue(s.dealer)
	switch {
	case dealerValue > 21 || playerValue > dealerValue:
		return OutcomeWin, bet * 2
	case playerValue < dealerValue:
		return OutcomeLose, 0
	default:
		return OutcomePush, bet
	}
}
