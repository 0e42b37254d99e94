// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package games

import (
	"math/rand"
)

// Mines outcomes.
const (
	OutcomeMineHit = "mine_hit"
	OutcomeCashout = "cashout"
)

// minesState is the in-flight board of an unsettled mines round. Cell
// indices are row-major on a square grid.
type minesState struct {
	gridSize int
	mines    map[int]bool
	revealed map[int]bool
}

func newMines(gridSize, mineCount int, rng *rand.Rand) *minesState {
	if gridSize < 2 {
		gridSize = 5
	}
	cells := gridSize * gridSize
	if mineCount < 1 {
		mineCount = 3
	}
	if mineCount >= cells {
		mineCount = cells - 1
	}

	mines := make(map[int]bool, mineCount)
	for _, idx := range rng.Perm(cells)[:mineCount] {
		mines[idx] = true
	}
	return &minesState{
		gridSize: gridSize,
		mines:    mines,
		revealed: make(map[int]bool),
	}
}

func (s *minesState) cells() int {
	return s.gridSize * s.gridSize
}

// reveal uncovers a cell. Returns hit=true when the cell holds a mine
// and ok=false when the cell index is invalid or already revealed.
func (s *minesState) reveal(cell int) (hit, ok bool) {
	if cell < 0 || cell >= s.cells() || s.revealed[cell] {
		return false, false
	}
	s.revealed[cell] = true
	return s.mines[cell], true
}

// multiplierBasis is the fixed-point scale of mines multipliers.
const multiplierBasis = 100

// multiplier returns the current cashout multiplier in hundredths.
// Each safe reveal multiplies the stake by the inverse survival odds
// of that pick, with a small house edge.
//
//	m = 0.97 * Π (remaining cells / remaining safe cells)
func (s *minesState) multiplier() int64 {
	cells := int64(s.cells())
	mineCount := int64(len(s.mines))
	numerator := int64(multiplierBasis) * 97 / 100

	remaining := cells
	for range s.revealed {
		safe := remaining - mineCount
		if safe <= 0 {
			break
		}
		numerator = numerator * remaining / safe
		remaining--
	}
	if len(s.revealed) == 0 {
		return multiplierBasis
	}
	return numerator
}

// cashoutPayout returns stake * multiplier, floored.
func (s *minesState) cashoutPayout(stake int64) int64 {
	return stake * s.multiplier() / multiplierBasis
}

// revealedCells returns the indices uncovered so far for client display.
func (s *minesState) revealedCells() []int {
	out := make([]int, 0, len(s.revealed))
	for idx := range s.revealed {
		out = append(out, idx)
	}
	return out
}
