// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"net/http"
	"time"

	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/models"
)

// The read endpoints below split every payload into a shared part and a
// user-scoped part. Only the shared part goes through the tag-indexed cache;
// anything derived from ?user_id is computed per request so one user's state
// can never leak into another user's response.

type leaderboardView struct {
	models.LeaderboardResponse
	Me *models.LeaderboardEntry `json:"me,omitempty"`
}

// GetLeaderboard godoc
// @Summary Points leaderboard
// @Description Returns the paginated leaderboard. Pass user_id to include the caller's own row.
// @Tags public
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Param user_id query int false "Include this user's own position"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/leaderboard [get]
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, offset := h.paging(r)

	key := cache.GenerateKey("leaderboard", map[string]int{"limit": limit, "offset": offset})
	shared, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagLeaderboard}, func() (interface{}, error) {
		entries, err := h.db.Leaderboard(r.Context(), limit, offset)
		if err != nil {
			return nil, err
		}
		total, err := h.db.CountUsers(r.Context())
		if err != nil {
			return nil, err
		}
		return models.LeaderboardResponse{
			Entries: entries,
			Total:   int(total),
			Limit:   limit,
			Offset:  offset,
		}, nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view := leaderboardView{LeaderboardResponse: shared.(models.LeaderboardResponse)}
	if userID := getInt64Param(r, "user_id", 0); userID > 0 {
		if me, err := h.leaderboardEntryFor(r, userID); err == nil {
			view.Me = me
		}
	}

	respondCached(w, view, h.cache.DefaultTTL(), start)
}

func (h *Handler) leaderboardEntryFor(r *http.Request, userID int64) (*models.LeaderboardEntry, error) {
	user, err := h.db.GetUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	position, err := h.db.UserPosition(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	entry := &models.LeaderboardEntry{
		Position: position,
		UserID:   user.ID,
		Username: user.Username,
		Points:   user.Points,
		XP:       user.XP,
	}
	if rank, err := h.db.RankForXP(r.Context(), user.XP); err == nil {
		entry.Rank = rank.Name
	}
	return entry, nil
}

type wheelView struct {
	Prizes    []models.WheelPrize `json:"prizes"`
	SpinsLeft *int                `json:"spins_left,omitempty"`
}

// GetWheel godoc
// @Summary Wheel prize list
// @Description Returns the active wheel segments. Pass user_id to include the caller's remaining daily spins.
// @Tags public
// @Produce json
// @Param user_id query int false "Include this user's remaining spins"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/wheel [get]
func (h *Handler) GetWheel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("wheel:prizes", nil)
	shared, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagWheel}, func() (interface{}, error) {
		return h.db.ListWheelPrizes(r.Context(), true)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view := wheelView{Prizes: shared.([]models.WheelPrize)}
	if userID := getInt64Param(r, "user_id", 0); userID > 0 {
		if left, err := h.db.SpinsLeft(r.Context(), userID, h.cfg.Wheel.DailySpins); err == nil {
			view.SpinsLeft = &left
		}
	}

	respondCached(w, view, h.cache.DefaultTTL(), start)
}

// GetShop godoc
// @Summary Shop catalog
// @Description Returns the active shop items. Pass user_id to include per-user purchase counts and limits.
// @Tags public
// @Produce json
// @Param user_id query int false "Include this user's purchase state"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/shop [get]
func (h *Handler) GetShop(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("shop:items", nil)
	shared, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagShop}, func() (interface{}, error) {
		return h.db.ListShopItems(r.Context(), true)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	items := shared.([]models.ShopItem)

	userID := getInt64Param(r, "user_id", 0)
	views := make([]models.ShopItemView, 0, len(items))
	for _, item := range items {
		view := models.ShopItemView{ShopItem: item, RemainingForUser: item.PerUserLimit}
		if userID > 0 {
			count, err := h.db.UserPurchaseCount(r.Context(), userID, item.ID)
			if err == nil {
				view.PurchasedByUser = count
				if item.PerUserLimit > 0 {
					view.RemainingForUser = item.PerUserLimit - count
					if view.RemainingForUser < 0 {
						view.RemainingForUser = 0
					}
				}
			}
		}
		views = append(views, view)
	}

	respondCached(w, views, h.cache.DefaultTTL(), start)
}

// GetTasks godoc
// @Summary Task list
// @Description Returns the active tasks. Pass user_id to mark tasks the caller already claimed.
// @Tags public
// @Produce json
// @Param user_id query int false "Mark this user's claimed tasks"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/tasks [get]
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("tasks:active", nil)
	shared, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagTasks}, func() (interface{}, error) {
		return h.db.ListTasks(r.Context(), true)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	tasks := shared.([]models.Task)

	claimed := map[int64]bool{}
	if userID := getInt64Param(r, "user_id", 0); userID > 0 {
		if m, err := h.db.ListClaimedTaskIDs(r.Context(), userID); err == nil {
			claimed = m
		}
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, models.TaskView{Task: task, Claimed: claimed[task.ID]})
	}

	respondCached(w, views, h.cache.DefaultTTL(), start)
}

// GetRanks godoc
// @Summary Rank tiers
// @Tags public
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/ranks [get]
func (h *Handler) GetRanks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("ranks", nil)
	data, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagLeaderboard}, func() (interface{}, error) {
		return h.db.ListRanks(r.Context())
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondCached(w, data, h.cache.DefaultTTL(), start)
}

// GetSponsors godoc
// @Summary Sponsor strip
// @Tags public
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/sponsors [get]
func (h *Handler) GetSponsors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("sponsors:active", nil)
	data, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagSponsors}, func() (interface{}, error) {
		return h.db.ListSponsors(r.Context(), true)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondCached(w, data, h.cache.DefaultTTL(), start)
}

// GetSocialLinks godoc
// @Summary Social links
// @Tags public
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/social [get]
func (h *Handler) GetSocialLinks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("social:active", nil)
	data, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagSocial}, func() (interface{}, error) {
		return h.db.ListSocialLinks(r.Context(), true)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondCached(w, data, h.cache.DefaultTTL(), start)
}

type profileView struct {
	User      models.User `json:"user"`
	Rank      string      `json:"rank,omitempty"`
	Position  int         `json:"position"`
	SpinsLeft int         `json:"spins_left"`
}

// GetProfile godoc
// @Summary User profile
// @Description Returns a user's public profile with rank, leaderboard position, and remaining daily spins. Never cached.
// @Tags public
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} models.APIResponse
// @Failure 404 {object} models.APIResponse
// @Router /api/v1/users/{id}/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.db.GetUser(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	view := profileView{User: *user}
	if rank, err := h.db.RankForXP(r.Context(), user.XP); err == nil {
		view.Rank = rank.Name
	}
	if position, err := h.db.UserPosition(r.Context(), id); err == nil {
		view.Position = position
	}
	if left, err := h.db.SpinsLeft(r.Context(), id, h.cfg.Wheel.DailySpins); err == nil {
		view.SpinsLeft = left
	}

	respondData(w, http.StatusOK, view, start)
}

// GetPointHistory godoc
// @Summary Point history
// @Description Returns a user's balance change log, newest first. Never cached.
// @Tags public
// @Produce json
// @Param id path int true "User id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/users/{id}/history [get]
func (h *Handler) GetPointHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	limit, offset := h.paging(r)

	history, err := h.db.ListPointHistory(r.Context(), id, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, history, start)
}

// GetSpinHistory godoc
// @Summary Wheel spin history
// @Tags public
// @Produce json
// @Param user_id query int true "User id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/wheel/history [get]
func (h *Handler) GetSpinHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := getInt64Param(r, "user_id", 0)
	if userID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_USER", "user_id must be a positive integer", nil)
		return
	}
	limit, offset := h.paging(r)

	spins, err := h.db.ListSpinHistory(r.Context(), userID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, spins, start)
}

// GetPurchases godoc
// @Summary Purchase history
// @Tags public
// @Produce json
// @Param user_id query int true "User id"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/shop/purchases [get]
func (h *Handler) GetPurchases(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := getInt64Param(r, "user_id", 0)
	if userID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_USER", "user_id must be a positive integer", nil)
		return
	}
	limit, offset := h.paging(r)

	purchases, err := h.db.ListPurchases(r.Context(), userID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, purchases, start)
}

// GetTicketEvents godoc
// @Summary Raffle events
// @Description Returns all raffle events with their state and sold ticket counts.
// @Tags public
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/tickets [get]
func (h *Handler) GetTicketEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key := cache.GenerateKey("tickets:events", nil)
	data, err := h.cache.GetOrCompute(key, h.cache.DefaultTTL(), []string{cache.TagTickets}, func() (interface{}, error) {
		return h.db.ListTicketEvents(r.Context())
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondCached(w, data, h.cache.DefaultTTL(), start)
}

// GetMyTickets godoc
// @Summary Own raffle tickets
// @Tags public
// @Produce json
// @Param user_id query int true "User id"
// @Param event_id query int false "Restrict to one event"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/tickets/mine [get]
func (h *Handler) GetMyTickets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := getInt64Param(r, "user_id", 0)
	if userID < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_USER", "user_id must be a positive integer", nil)
		return
	}
	eventID := getInt64Param(r, "event_id", 0)

	tickets, err := h.db.ListUserTickets(r.Context(), userID, eventID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, tickets, start)
}
