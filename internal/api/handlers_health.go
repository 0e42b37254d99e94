// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"net/http"
	"time"
)

type healthView struct {
	Status       string  `json:"status"`
	UptimeSecs   int64   `json:"uptime_secs"`
	Database     string  `json:"database"`
	CacheEntries int     `json:"cache_entries"`
	CacheHitRate float64 `json:"cache_hit_rate"`
	WSClients    int     `json:"ws_clients"`
}

// Health godoc
// @Summary Health summary
// @Description Reports process uptime, database reachability, cache counters, and connected WebSocket clients.
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	view := healthView{
		Status:       "ok",
		UptimeSecs:   int64(time.Since(h.startedAt).Seconds()),
		Database:     "ok",
		CacheEntries: h.cache.Len(),
		CacheHitRate: h.cache.HitRate(),
	}
	if h.hub != nil {
		view.WSClients = h.hub.GetClientCount()
	}
	if err := h.db.Ping(r.Context()); err != nil {
		view.Status = "degraded"
		view.Database = "unreachable"
	}

	respondData(w, http.StatusOK, view, start)
}

// HealthLive godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /api/v1/health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady godoc
// @Summary Readiness probe
// @Description Fails while the database is unreachable so load balancers stop routing traffic.
// @Tags health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /api/v1/health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database unreachable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
