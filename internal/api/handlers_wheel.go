// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/reward"
)

// SpinRequest is the wheel spin payload.
type SpinRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
}

// SpinWheel godoc
// @Summary Spin the prize wheel
// @Description Consumes one daily spin, draws a weighted prize, and credits it. The spin is consumed even when the prize is zero points.
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body SpinRequest true "Spin request"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/wheel/spin [post]
func (h *Handler) SpinWheel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SpinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	// The prize pool is validated before the spin is consumed so a rejected
	// request never burns the daily budget.
	prizes, err := h.db.ListWheelPrizes(r.Context(), true)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if len(prizes) == 0 {
		respondError(w, http.StatusConflict, "WHEEL_EMPTY", "No active prizes configured", nil)
		return
	}

	// A conditional update guards the daily budget, so two concurrent spins
	// can never both take the last one.
	left, err := h.db.ConsumeDailySpin(r.Context(), req.UserID, h.cfg.Wheel.DailySpins)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	prize := drawPrize(prizes)

	user, err := h.rewards.Apply(r.Context(), req.UserID, prize.Points, 0,
		reward.ReasonWheelSpin, fmt.Sprintf("user:%d", req.UserID))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := h.db.RecordSpin(r.Context(), req.UserID, &prize); err != nil {
		// The reward is already settled; losing the history row is not worth
		// failing the request over.
		logging.Warn().Err(err).Int64("user_id", req.UserID).Msg("Failed to record spin history")
	}

	respondData(w, http.StatusOK, models.SpinResult{
		Prize:     prize,
		Points:    prize.Points,
		Balance:   user.Points,
		SpinsLeft: left,
	}, start)
}

// drawPrize picks one segment proportionally to its weight. Segments with a
// non-positive weight never win unless every segment is weightless, in which
// case the draw is uniform.
func drawPrize(prizes []models.WheelPrize) models.WheelPrize {
	var total float64
	for _, p := range prizes {
		if p.Weight > 0 {
			total += p.Weight
		}
	}
	if total <= 0 {
		return prizes[rand.Intn(len(prizes))]
	}

	target := rand.Float64() * total
	for _, p := range prizes {
		if p.Weight <= 0 {
			continue
		}
		target -= p.Weight
		if target < 0 {
			return p
		}
	}
	return prizes[len(prizes)-1]
}
