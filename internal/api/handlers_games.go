// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playforge/playforge/internal/games"
)

// BetRequest starts a blackjack or mines round.
type BetRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	Bet    int64 `json:"bet" validate:"required,min=1"`
}

// RoundActionRequest acts on an in-flight round owned by the user.
type RoundActionRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

// RouletteRequest places and settles a roulette bet in one shot.
type RouletteRequest struct {
	UserID int64  `json:"user_id" validate:"required,min=1"`
	Bet    int64  `json:"bet" validate:"required,min=1"`
	Kind   string `json:"kind" validate:"required"`
	Number int    `json:"number" validate:"min=0,max=36"`
}

// RevealRequest reveals one cell of a mines round.
type RevealRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	Cell   *int  `json:"cell" validate:"required"`
}

func roundParam(r *http.Request) string {
	return chi.URLParam(r, "round")
}

// StartBlackjack godoc
// @Summary Start a blackjack round
// @Description Debits the bet and deals the opening hands. A natural settles immediately.
// @Tags games
// @Accept json
// @Produce json
// @Param request body BetRequest true "Bet"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/games/blackjack [post]
func (h *Handler) StartBlackjack(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	view, err := h.games.StartBlackjack(r.Context(), req.UserID, req.Bet)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// BlackjackHit godoc
// @Summary Draw a card
// @Tags games
// @Accept json
// @Produce json
// @Param round path string true "Round id"
// @Param request body RoundActionRequest true "Acting user"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/blackjack/{round}/hit [post]
func (h *Handler) BlackjackHit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RoundActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.BlackjackHit(r.Context(), req.UserID, roundParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// BlackjackStand godoc
// @Summary Stand and settle
// @Tags games
// @Accept json
// @Produce json
// @Param round path string true "Round id"
// @Param request body RoundActionRequest true "Acting user"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/blackjack/{round}/stand [post]
func (h *Handler) BlackjackStand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RoundActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.BlackjackStand(r.Context(), req.UserID, roundParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// PlayRoulette godoc
// @Summary Play a roulette round
// @Description Places the bet, spins, and settles in a single request.
// @Tags games
// @Accept json
// @Produce json
// @Param request body RouletteRequest true "Bet"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/roulette [post]
func (h *Handler) PlayRoulette(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RouletteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}
	if _, err := games.ParseRouletteBet(req.Kind, req.Number); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BET", err.Error(), nil)
		return
	}

	view, err := h.games.PlayRoulette(r.Context(), req.UserID, req.Bet, req.Kind, req.Number)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// StartMines godoc
// @Summary Start a mines round
// @Tags games
// @Accept json
// @Produce json
// @Param request body BetRequest true "Bet"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/mines [post]
func (h *Handler) StartMines(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	view, err := h.games.StartMines(r.Context(), req.UserID, req.Bet)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// MinesReveal godoc
// @Summary Reveal a cell
// @Description Reveals one cell. Hitting a mine forfeits the round.
// @Tags games
// @Accept json
// @Produce json
// @Param round path string true "Round id"
// @Param request body RevealRequest true "Cell to reveal"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/mines/{round}/reveal [post]
func (h *Handler) MinesReveal(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RevealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.MinesReveal(r.Context(), req.UserID, roundParam(r), *req.Cell)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// MinesCashout godoc
// @Summary Cash out a mines round
// @Description Settles the round at the current multiplier.
// @Tags games
// @Accept json
// @Produce json
// @Param round path string true "Round id"
// @Param request body RoundActionRequest true "Acting user"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/mines/{round}/cashout [post]
func (h *Handler) MinesCashout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RoundActionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	view, err := h.games.MinesCashout(r.Context(), req.UserID, roundParam(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, view, start)
}

// GetGameHistory godoc
// @Summary Game round history
// @Tags games
// @Produce json
// @Param user_id query int true "User id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/games/history [get]
func (h *Handler) GetGameHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := getInt64Param(r, "user_id", 0)
	if userID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_USER", "user_id must be a positive integer", nil)
		return
	}
	limit, offset := h.paging(r)

	rounds, err := h.games.History(r.Context(), userID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, rounds, start)
}
