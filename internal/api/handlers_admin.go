// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/middleware"
	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/reward"
)

// Login godoc
// @Summary Admin login
// @Description Verifies back-office credentials and issues a JWT.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse
// @Failure 401 {object} models.APIResponse
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.creds.Verify(req.Username, req.Password); err != nil {
		logging.Warn().Str("username", sanitizeLogValue(req.Username)).Msg("Failed login attempt")
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return
	}

	token, err := h.jwt.GenerateToken(req.Username, models.RoleAdmin)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err)
		return
	}

	respondData(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(h.jwt.SessionTimeout()),
		Username:  req.Username,
		Role:      models.RoleAdmin,
	}, start)
}

// adminActor derives the audit actor string from the JWT claims.
func adminActor(r *http.Request) string {
	claims := middleware.GetClaims(r.Context())
	if claims == nil {
		return "admin:unknown"
	}
	return "admin:" + claims.Username
}

type userListView struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// AdminListUsers godoc
// @Summary List users
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param search query string false "Username substring filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/users [get]
func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	limit, offset := h.paging(r)

	users, err := h.db.ListUsers(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	total, err := h.db.CountUsers(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, userListView{Users: users, Total: total}, start)
}

// AdjustRequest is a manual balance correction.
type AdjustRequest struct {
	PointsDelta int64  `json:"points_delta"`
	XPDelta     int64  `json:"xp_delta"`
	Note        string `json:"note" validate:"max=200"`
}

// AdminAdjustPoints godoc
// @Summary Adjust a user's balance
// @Description Applies a manual points/XP correction attributed to the calling admin.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Param request body AdjustRequest true "Deltas"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/users/{id}/adjust [post]
func (h *Handler) AdminAdjustPoints(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req AdjustRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.PointsDelta == 0 && req.XPDelta == 0 {
		respondError(w, http.StatusBadRequest, "EMPTY_ADJUSTMENT", "At least one of points_delta or xp_delta must be non-zero", nil)
		return
	}

	user, err := h.rewards.Apply(r.Context(), id, req.PointsDelta, req.XPDelta,
		reward.ReasonAdminAdjust, adminActor(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, user, start)
}

// BanRequest carries the optional reason for a ban.
type BanRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// AdminBanUser godoc
// @Summary Ban a user
// @Description Marks the user banned and records the ban. Banned users are rejected from every reward mutation.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/users/{id}/ban [post]
func (h *Handler) AdminBanUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req BanRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	if err := h.db.SetBanned(r.Context(), id, true); err != nil {
		respondDomainError(w, err)
		return
	}
	if h.bans != nil {
		if err := h.bans.Ban(id, req.Reason, adminActor(r)); err != nil {
			logging.Warn().Err(err).Int64("user_id", id).Msg("Banlist write failed")
		}
	}
	h.rewards.Invalidate(cache.TagLeaderboard)

	respondData(w, http.StatusOK, map[string]interface{}{"user_id": id, "banned": true}, start)
}

// AdminUnbanUser godoc
// @Summary Unban a user
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User id"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/users/{id}/unban [post]
func (h *Handler) AdminUnbanUser(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.SetBanned(r.Context(), id, false); err != nil {
		respondDomainError(w, err)
		return
	}
	if h.bans != nil {
		if err := h.bans.Unban(id); err != nil {
			logging.Warn().Err(err).Int64("user_id", id).Msg("Banlist delete failed")
		}
	}
	h.rewards.Invalidate(cache.TagLeaderboard)

	respondData(w, http.StatusOK, map[string]interface{}{"user_id": id, "banned": false}, start)
}

// AdminListBans godoc
// @Summary List active bans
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/bans [get]
func (h *Handler) AdminListBans(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.bans == nil {
		respondData(w, http.StatusOK, []interface{}{}, start)
		return
	}

	entries, err := h.bans.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bans", err)
		return
	}
	respondData(w, http.StatusOK, entries, start)
}

// PrizeRequest is the wheel prize create/update payload.
type PrizeRequest struct {
	Label     string  `json:"label" validate:"required,max=100"`
	Points    int64   `json:"points" validate:"min=0"`
	Weight    float64 `json:"weight" validate:"min=0"`
	IsActive  bool    `json:"is_active"`
	SortOrder int     `json:"sort_order"`
}

func (h *Handler) AdminListPrizes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	prizes, err := h.db.ListWheelPrizes(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, prizes, start)
}

// AdminCreatePrize godoc
// @Summary Create a wheel prize
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body PrizeRequest true "Prize"
// @Success 201 {object} models.APIResponse
// @Router /api/v1/admin/wheel/prizes [post]
func (h *Handler) AdminCreatePrize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req PrizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	prize, err := h.db.CreateWheelPrize(r.Context(), &models.WheelPrize{
		Label:     req.Label,
		Points:    req.Points,
		Weight:    req.Weight,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagWheel)
	respondData(w, http.StatusCreated, prize, start)
}

func (h *Handler) AdminUpdatePrize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PrizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	prize := &models.WheelPrize{
		ID:        id,
		Label:     req.Label,
		Points:    req.Points,
		Weight:    req.Weight,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
	if err := h.db.UpdateWheelPrize(r.Context(), prize); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagWheel)
	respondData(w, http.StatusOK, prize, start)
}

func (h *Handler) AdminDeletePrize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteWheelPrize(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagWheel)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// ItemRequest is the shop item create/update payload. Stock -1 means
// unlimited; per_user_limit 0 means no per-user cap.
type ItemRequest struct {
	Name         string `json:"name" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	Price        int64  `json:"price" validate:"required,min=1"`
	Stock        int    `json:"stock" validate:"min=-1"`
	PerUserLimit int    `json:"per_user_limit" validate:"min=0"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
}

func (h *Handler) AdminListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	items, err := h.db.ListShopItems(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, items, start)
}

// AdminCreateItem godoc
// @Summary Create a shop item
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body ItemRequest true "Item"
// @Success 201 {object} models.APIResponse
// @Router /api/v1/admin/shop/items [post]
func (h *Handler) AdminCreateItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.db.CreateShopItem(r.Context(), &models.ShopItem{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		PerUserLimit: req.PerUserLimit,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagShop)
	respondData(w, http.StatusCreated, item, start)
}

func (h *Handler) AdminUpdateItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item := &models.ShopItem{
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Stock:        req.Stock,
		PerUserLimit: req.PerUserLimit,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	}
	if err := h.db.UpdateShopItem(r.Context(), item); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagShop)
	respondData(w, http.StatusOK, item, start)
}

func (h *Handler) AdminDeleteItem(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteShopItem(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagShop)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// TaskRequest is the task create/update payload.
type TaskRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	URL          string `json:"url" validate:"omitempty,url"`
	RewardPoints int64  `json:"reward_points" validate:"min=0"`
	RewardXP     int64  `json:"reward_xp" validate:"min=0"`
	IsActive     bool   `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
}

func (h *Handler) AdminListTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	tasks, err := h.db.ListTasks(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, tasks, start)
}

func (h *Handler) AdminCreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.db.CreateTask(r.Context(), &models.Task{
		Title:        req.Title,
		Description:  req.Description,
		URL:          req.URL,
		RewardPoints: req.RewardPoints,
		RewardXP:     req.RewardXP,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTasks)
	respondData(w, http.StatusCreated, task, start)
}

func (h *Handler) AdminUpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req TaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task := &models.Task{
		ID:           id,
		Title:        req.Title,
		Description:  req.Description,
		URL:          req.URL,
		RewardPoints: req.RewardPoints,
		RewardXP:     req.RewardXP,
		IsActive:     req.IsActive,
		SortOrder:    req.SortOrder,
	}
	if err := h.db.UpdateTask(r.Context(), task); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTasks)
	respondData(w, http.StatusOK, task, start)
}

func (h *Handler) AdminDeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteTask(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTasks)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// RankRequest is the rank tier create/update payload.
type RankRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	MinXP     int64  `json:"min_xp" validate:"min=0"`
	SortOrder int    `json:"sort_order"`
}

func (h *Handler) AdminListRanks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ranks, err := h.db.ListRanks(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, ranks, start)
}

func (h *Handler) AdminCreateRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req RankRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rank, err := h.db.CreateRank(r.Context(), &models.Rank{
		Name:      req.Name,
		MinXP:     req.MinXP,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagLeaderboard)
	respondData(w, http.StatusCreated, rank, start)
}

func (h *Handler) AdminUpdateRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req RankRequest
	if !decodeBody(w, r, &req) {
		return
	}

	rank := &models.Rank{ID: id, Name: req.Name, MinXP: req.MinXP, SortOrder: req.SortOrder}
	if err := h.db.UpdateRank(r.Context(), rank); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagLeaderboard)
	respondData(w, http.StatusOK, rank, start)
}

func (h *Handler) AdminDeleteRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteRank(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagLeaderboard)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// PromocodeRequest is the promocode create/update payload. MaxUses 0 means
// unlimited.
type PromocodeRequest struct {
	Code      string     `json:"code" validate:"required,promocode"`
	Points    int64      `json:"points" validate:"required,min=1"`
	MaxUses   int        `json:"max_uses" validate:"min=0"`
	ExpiresAt *time.Time `json:"expires_at"`
	IsActive  bool       `json:"is_active"`
}

func (h *Handler) AdminListPromocodes(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	promos, err := h.db.ListPromocodes(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, promos, start)
}

func (h *Handler) AdminCreatePromocode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req PromocodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	promo, err := h.db.CreatePromocode(r.Context(), &models.Promocode{
		Code:      req.Code,
		Points:    req.Points,
		MaxUses:   req.MaxUses,
		ExpiresAt: req.ExpiresAt,
		IsActive:  req.IsActive,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusCreated, promo, start)
}

func (h *Handler) AdminUpdatePromocode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req PromocodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	promo := &models.Promocode{
		ID:        id,
		Code:      req.Code,
		Points:    req.Points,
		MaxUses:   req.MaxUses,
		ExpiresAt: req.ExpiresAt,
		IsActive:  req.IsActive,
	}
	if err := h.db.UpdatePromocode(r.Context(), promo); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, promo, start)
}

func (h *Handler) AdminDeletePromocode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeletePromocode(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// SponsorRequest is the sponsor create/update payload.
type SponsorRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	URL       string `json:"url" validate:"omitempty,url"`
	LogoURL   string `json:"logo_url" validate:"omitempty,url"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

func (h *Handler) AdminListSponsors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sponsors, err := h.db.ListSponsors(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, sponsors, start)
}

func (h *Handler) AdminCreateSponsor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req SponsorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sponsor, err := h.db.CreateSponsor(r.Context(), &models.Sponsor{
		Name:      req.Name,
		URL:       req.URL,
		LogoURL:   req.LogoURL,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSponsors)
	respondData(w, http.StatusCreated, sponsor, start)
}

func (h *Handler) AdminUpdateSponsor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SponsorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sponsor := &models.Sponsor{
		ID:        id,
		Name:      req.Name,
		URL:       req.URL,
		LogoURL:   req.LogoURL,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
	if err := h.db.UpdateSponsor(r.Context(), sponsor); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSponsors)
	respondData(w, http.StatusOK, sponsor, start)
}

func (h *Handler) AdminDeleteSponsor(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteSponsor(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSponsors)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// ReorderRequest is a batch reorder payload: ids in the desired display order.
type ReorderRequest struct {
	IDs []int64 `json:"ids" validate:"required,min=1,dive,min=1"`
}

// AdminReorderSponsors godoc
// @Summary Reorder sponsors
// @Description Rewrites the sponsor display order to match the given id list.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Router /api/v1/admin/sponsors/reorder [put]
func (h *Handler) AdminReorderSponsors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ReorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.db.ReorderSponsors(r.Context(), req.IDs); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSponsors)
	sponsors, err := h.db.ListSponsors(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, sponsors, start)
}

// SocialLinkRequest is the social link create/update payload.
type SocialLinkRequest struct {
	Platform  string `json:"platform" validate:"required,max=100"`
	URL       string `json:"url" validate:"required,url"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

func (h *Handler) AdminListSocialLinks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	links, err := h.db.ListSocialLinks(r.Context(), false)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, links, start)
}

func (h *Handler) AdminCreateSocialLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req SocialLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	link, err := h.db.CreateSocialLink(r.Context(), &models.SocialLink{
		Platform:  req.Platform,
		URL:       req.URL,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSocial)
	respondData(w, http.StatusCreated, link, start)
}

func (h *Handler) AdminUpdateSocialLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req SocialLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	link := &models.SocialLink{
		ID:        id,
		Platform:  req.Platform,
		URL:       req.URL,
		IsActive:  req.IsActive,
		SortOrder: req.SortOrder,
	}
	if err := h.db.UpdateSocialLink(r.Context(), link); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSocial)
	respondData(w, http.StatusOK, link, start)
}

func (h *Handler) AdminDeleteSocialLink(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.db.DeleteSocialLink(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagSocial)
	respondData(w, http.StatusOK, map[string]int64{"deleted": id}, start)
}

// TicketEventRequest is the raffle event creation payload. MaxTickets 0
// means unlimited.
type TicketEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	TicketPrice int64      `json:"ticket_price" validate:"required,min=1"`
	MaxTickets  int        `json:"max_tickets" validate:"min=0"`
	EndsAt      *time.Time `json:"ends_at"`
}

func (h *Handler) AdminListTicketEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	eventList, err := h.db.ListTicketEvents(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondData(w, http.StatusOK, eventList, start)
}

// AdminCreateTicketEvent godoc
// @Summary Create a raffle event
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body TicketEventRequest true "Event"
// @Success 201 {object} models.APIResponse
// @Router /api/v1/admin/tickets [post]
func (h *Handler) AdminCreateTicketEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req TicketEventRequest
	if !decodeBody(w, r, &req) {
		return
	}

	event, err := h.db.CreateTicketEvent(r.Context(), &models.TicketEvent{
		Title:       req.Title,
		TicketPrice: req.TicketPrice,
		MaxTickets:  req.MaxTickets,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTickets)
	respondData(w, http.StatusCreated, event, start)
}

// AdminCloseTicketEvent godoc
// @Summary Close a raffle event
// @Description Stops ticket sales. The draw requires a closed event.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event id"
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/tickets/{id}/close [post]
func (h *Handler) AdminCloseTicketEvent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.db.CloseTicketEvent(r.Context(), id); err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTickets)
	respondData(w, http.StatusOK, map[string]interface{}{"event_id": id, "status": models.TicketEventClosed}, start)
}

// AdminDrawWinner godoc
// @Summary Draw the raffle winner
// @Description Picks a uniformly random sold ticket of a closed event and announces the result.
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Event id"
// @Success 200 {object} models.APIResponse
// @Failure 409 {object} models.APIResponse
// @Router /api/v1/admin/tickets/{id}/draw [post]
func (h *Handler) AdminDrawWinner(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	event, err := h.db.DrawTicketWinner(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	h.rewards.CatalogChanged(r.Context(), cache.TagTickets)

	if event.WinnerID != nil {
		if winner, err := h.db.GetUser(r.Context(), *event.WinnerID); err == nil {
			if err := h.rewards.Announce("Raffle drawn",
				fmt.Sprintf("%s won the raffle %q!", winner.Username, event.Title)); err != nil {
				logging.Warn().Err(err).Msg("Failed to announce raffle winner")
			}
		}
	}

	respondData(w, http.StatusOK, event, start)
}

// BroadcastRequest is an operator announcement.
type BroadcastRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"max=4000"`
}

// AdminBroadcast godoc
// @Summary Broadcast an announcement
// @Description Publishes an announcement fanned out to WebSocket clients and, when the bot is enabled, every Telegram user.
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body BroadcastRequest true "Announcement"
// @Success 202 {object} models.APIResponse
// @Router /api/v1/admin/broadcast [post]
func (h *Handler) AdminBroadcast(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req BroadcastRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.rewards.Announce(req.Title, req.Body); err != nil {
		respondError(w, http.StatusInternalServerError, "BROADCAST_FAILED", "Failed to publish broadcast", err)
		return
	}
	respondData(w, http.StatusAccepted, map[string]string{"status": "queued"}, start)
}

// AdminFlushCache godoc
// @Summary Flush the response cache
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/cache/flush [post]
func (h *Handler) AdminFlushCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	flushed := h.cache.Len()
	h.cache.Clear()
	logging.Info().Int("entries", flushed).Str("actor", adminActor(r)).Msg("Cache flushed")
	respondData(w, http.StatusOK, map[string]int{"flushed": flushed}, start)
}

type cacheStatsView struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	Entries     int       `json:"entries"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// AdminCacheStats godoc
// @Summary Cache counters
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/admin/cache/stats [get]
func (h *Handler) AdminCacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats := h.cache.GetStats()
	respondData(w, http.StatusOK, cacheStatsView{
		Hits:        stats.Hits,
		Misses:      stats.Misses,
		Evictions:   stats.Evictions,
		Entries:     h.cache.Len(),
		HitRate:     h.cache.HitRate(),
		LastCleanup: stats.LastCleanup,
	}, start)
}
