// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"net/http"
	"time"

	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/reward"
)

// PurchaseRequest is the shop purchase payload.
type PurchaseRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	ItemID int64 `json:"item_id" validate:"required,min=1"`
}

type purchaseView struct {
	Purchase models.Purchase `json:"purchase"`
	Balance  int64           `json:"balance"`
}

// PurchaseItem godoc
// @Summary Buy a shop item
// @Description Debits the item price, decrements stock, and records the purchase atomically.
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body PurchaseRequest true "Purchase request"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/shop/purchase [post]
func (h *Handler) PurchaseItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req PurchaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	purchase, user, err := h.db.PurchaseItem(r.Context(), req.UserID, req.ItemID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.rewards.Settled(r.Context(), user, reward.ReasonShopPurchase, -purchase.PricePaid, 0)

	respondData(w, http.StatusOK, purchaseView{Purchase: *purchase, Balance: user.Points}, start)
}

// ClaimRequest is the task claim payload.
type ClaimRequest struct {
	UserID int64 `json:"user_id" validate:"required,min=1"`
	TaskID int64 `json:"task_id" validate:"required,min=1"`
}

type claimView struct {
	Task    models.Task `json:"task"`
	Balance int64       `json:"balance"`
	XP      int64       `json:"xp"`
}

// ClaimTask godoc
// @Summary Claim a task reward
// @Description Credits the task's points and XP once per user.
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body ClaimRequest true "Claim request"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/tasks/claim [post]
func (h *Handler) ClaimTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ClaimRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	task, user, err := h.db.ClaimTask(r.Context(), req.UserID, req.TaskID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.rewards.Settled(r.Context(), user, reward.ReasonTaskClaim, task.RewardPoints, task.RewardXP)

	respondData(w, http.StatusOK, claimView{Task: *task, Balance: user.Points, XP: user.XP}, start)
}

// RedeemRequest is the promocode redemption payload.
type RedeemRequest struct {
	UserID int64  `json:"user_id" validate:"required,min=1"`
	Code   string `json:"code" validate:"required,promocode"`
}

type redeemView struct {
	Code    string `json:"code"`
	Points  int64  `json:"points"`
	Balance int64  `json:"balance"`
}

// RedeemPromocode godoc
// @Summary Redeem a promocode
// @Description Credits the code's points. Each code may be redeemed once per user, subject to its use limit and expiry.
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body RedeemRequest true "Redeem request"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/promo/redeem [post]
func (h *Handler) RedeemPromocode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RedeemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	promo, user, err := h.db.RedeemPromocode(r.Context(), req.UserID, req.Code)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	h.rewards.Settled(r.Context(), user, reward.ReasonPromoRedeem, promo.Points, 0)

	respondData(w, http.StatusOK, redeemView{Code: promo.Code, Points: promo.Points, Balance: user.Points}, start)
}

// BuyTicketsRequest is the raffle ticket purchase payload.
type BuyTicketsRequest struct {
	UserID  int64 `json:"user_id" validate:"required,min=1"`
	EventID int64 `json:"event_id" validate:"required,min=1"`
	Count   int   `json:"count" validate:"required,min=1,max=100"`
}

type buyTicketsView struct {
	Tickets []models.Ticket `json:"tickets"`
	Balance int64           `json:"balance"`
}

// BuyTickets godoc
// @Summary Buy raffle tickets
// @Description Debits the ticket price per ticket and issues the entries while the event is open.
// @Tags rewards
// @Accept json
// @Produce json
// @Param request body BuyTicketsRequest true "Ticket purchase request"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/tickets/buy [post]
func (h *Handler) BuyTickets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req BuyTicketsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if _, ok := h.requireActiveUser(w, r, req.UserID); !ok {
		return
	}

	event, err := h.db.GetTicketEvent(r.Context(), req.EventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	tickets, user, err := h.db.BuyTickets(r.Context(), req.UserID, req.EventID, req.Count)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	spent := event.TicketPrice * int64(len(tickets))
	h.rewards.Settled(r.Context(), user, reward.ReasonTicketPurchase, -spent, 0)

	respondData(w, http.StatusOK, buyTicketsView{Tickets: tickets, Balance: user.Points}, start)
}
