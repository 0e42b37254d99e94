// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"fmt"
	"math/rand"
	"strconv"
)

// Roulette bet types (single-zero wheel).
const (
	RouletteBetStraight = "straight"
	RouletteBetRed      = "red"
	RouletteBetBlack    = "black"
	RouletteBetEven     = "even"
	RouletteBetOdd      = "odd"
	RouletteBetLow      = "low"  // 1-18
	RouletteBetHigh     = "high" // 19-36
	RouletteBetDozen1   = "dozen1"
	RouletteBetDozen2   = "dozen2"
	RouletteBetDozen3   = "dozen3"
)

// redNumbers on a standard European wheel.
var redNumbers = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true,
	14: true, 16: true, 18: true, 19: true, 21: true, 23: true,
	25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// RouletteBet is a validated wager on a single spin.
type RouletteBet struct {
	Kind   string
	Number int // straight bets only
}

// ParseRouletteBet validates the bet kind and, for straight bets, the
// target number.
func ParseRouletteBet(kind string, number int) (*RouletteBet, error) {
	switch kind {
	case RouletteBetStraight:
		if number < 0 || number > 36 {
			return nil, fmt.Errorf("straight bet number %d out of range 0-36", number)
		}
		return &RouletteBet{Kind: kind, Number: number}, nil
	case RouletteBetRed, RouletteBetBlack, RouletteBetEven, RouletteBetOdd,
		RouletteBetLow, RouletteBetHigh,
		RouletteBetDozen1, RouletteBetDozen2, RouletteBetDozen3:
		return &RouletteBet{Kind: kind}, nil
	default:
		return nil, fmt.Errorf("unknown roulette bet kind %q", kind)
	}
}

// spinRoulette picks the winning pocket, 0-36 uniform.
func spinRoulette(rng *rand.Rand) int {
	return rng.Intn(37)
}

// resolveRoulette returns whether the bet covers the pocket and the
// payout for the given stake. Payout includes the returned stake.
// Zero loses every outside bet.
func resolveRoulette(bet *RouletteBet, pocket int, stake int64) (won bool, payout int64) {
	switch bet.Kind {
	case RouletteBetStraight:
		won = pocket == bet.Number
		if won {
			payout = stake * 36
		}
	case RouletteBetRed:
		won = redNumbers[pocket]
		payout = evenMoney(won, stake)
	case RouletteBetBlack:
		won = pocket != 0 && !redNumbers[pocket]
		payout = evenMoney(won, stake)
	case RouletteBetEven:
		won = pocket != 0 && pocket%2 == 0
		payout = evenMoney(won, stake)
	case RouletteBetOdd:
		won = pocket%2 == 1
		payout = evenMoney(won, stake)
	case RouletteBetLow:
		won = pocket >= 1 && pocket <= 18
		payout = evenMoney(won, stake)
	case RouletteBetHigh:
		won = pocket >= 19
		payout = evenMoney(won, stake)
	case RouletteBetDozen1, RouletteBetDozen2, RouletteBetDozen3:
		dozen := int(bet.Kind[len(bet.Kind)-1] - '0')
		won = pocket >= (dozen-1)*12+1 && pocket <= dozen*12
		if won {
			payout = stake * 3
		}
	}
	return won, payout
}

func evenMoney(won bool, stake int64) int64 {
	if won {
		return stake * 2
	}
	return 0
}

// rouletteOutcome encodes the result for the round record, e.g.
// "win:17" or "lose:0".
func rouletteOutcome(won bool, pocket int) string {
	prefix := OutcomeLose
	if won {
		prefix = OutcomeWin
	}
	return prefix + ":" + strconv.Itoa(pocket)
}
