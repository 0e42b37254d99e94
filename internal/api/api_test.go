// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/auth"
	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/games"
	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/reward"
)

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *models.APIError `json:"error"`
}

type testEnv struct {
	handler *Handler
	server  *httptest.Server
	db      *database.DB
	cache   *cache.Cache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := auth.HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	cfg := &config.Config{}
	cfg.Security.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Security.SessionTimeout = time.Hour
	cfg.Security.AdminUsername = "admin"
	cfg.Security.AdminPasswordHash = hash
	cfg.Security.RateLimitDisabled = true
	cfg.Security.CORSOrigins = []string{"*"}
	cfg.API.DefaultPageSize = 20
	cfg.API.MaxPageSize = 100
	cfg.Wheel.DailySpins = 3
	cfg.Games.Enabled = true
	cfg.Games.MinBet = 10
	cfg.Games.MaxBet = 1000
	cfg.Games.RoundsPerMin = 600
	cfg.Games.RoundBurst = 100

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := cache.New(time.Minute)
	rewards := reward.NewService(db, c, nil, nil)
	gamesSvc := games.NewService(db, cfg.Games, rewards.GameHook())

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		t.Fatalf("jwt manager: %v", err)
	}
	creds, err := auth.NewCredentialChecker(&cfg.Security)
	if err != nil {
		t.Fatalf("credential checker: %v", err)
	}

	h := NewHandler(db, c, cfg, rewards, gamesSvc, nil, nil, jwtManager, creds, nil)
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)

	return &testEnv{handler: h, server: server, db: db, cache: c}
}

func (e *testEnv) seedUser(t *testing.T, id int64, points int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := e.db.UpsertUser(ctx, id, fmt.Sprintf("user%d", id), "Test"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if points != 0 {
		if _, err := e.db.AdjustBalance(ctx, id, points, 0); err != nil {
			t.Fatalf("seed balance: %v", err)
		}
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp, env
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	resp, env := e.do(t, http.MethodPost, "/api/v1/auth/login",
		models.LoginRequest{Username: "admin", Password: "correct horse battery"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var login models.LoginResponse
	if err := json.Unmarshal(env.Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return login.Token
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/health/live", nil, "")
	if resp.StatusCode != http.StatusOK || !body.Success {
		t.Fatalf("live: status=%d success=%v", resp.StatusCode, body.Success)
	}

	resp, body = env.do(t, http.MethodGet, "/api/v1/health/ready", nil, "")
	if resp.StatusCode != http.StatusOK || !body.Success {
		t.Fatalf("ready: status=%d success=%v", resp.StatusCode, body.Success)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/auth/login",
		models.LoginRequest{Username: "admin", Password: "wrong"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body.Error == nil || body.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("error = %+v", body.Error)
	}
}

func TestAdminRoutesRequireJWT(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", resp.StatusCode)
	}

	token := env.login(t)
	resp, body := env.do(t, http.MethodGet, "/api/v1/admin/users", nil, token)
	if resp.StatusCode != http.StatusOK || !body.Success {
		t.Fatalf("with token: status=%d success=%v", resp.StatusCode, body.Success)
	}
}

func TestShopReadIsCachedAndInvalidatedByAdminWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.db.CreateShopItem(ctx, &models.ShopItem{Name: "Sticker", Price: 50, Stock: -1, IsActive: true}); err != nil {
		t.Fatalf("seed item: %v", err)
	}

	resp, body := env.do(t, http.MethodGet, "/api/v1/shop", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("shop status = %d", resp.StatusCode)
	}
	var items []models.ShopItemView
	if err := json.Unmarshal(body.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if resp.Header.Get("Cache-Control") == "" || resp.Header.Get("ETag") == "" {
		t.Fatal("expected cache headers on shared read")
	}

	// An admin write must evict the shop tag, so the next read sees the
	// new item instead of the cached snapshot.
	token := env.login(t)
	resp, _ = env.do(t, http.MethodPost, "/api/v1/admin/shop/items",
		ItemRequest{Name: "Mug", Price: 200, Stock: 5, IsActive: true}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create item status = %d", resp.StatusCode)
	}

	_, body = env.do(t, http.MethodGet, "/api/v1/shop", nil, "")
	if err := json.Unmarshal(body.Data, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items after invalidation = %d, want 2", len(items))
	}
}

func TestSpinWheelConsumesDailyBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 0)

	if _, err := env.db.CreateWheelPrize(ctx, &models.WheelPrize{Label: "100 pts", Points: 100, Weight: 1, IsActive: true}); err != nil {
		t.Fatalf("seed prize: %v", err)
	}

	for i := 0; i < 3; i++ {
		resp, body := env.do(t, http.MethodPost, "/api/v1/wheel/spin", SpinRequest{UserID: 1}, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("spin %d: status = %d", i, resp.StatusCode)
		}
		var result models.SpinResult
		if err := json.Unmarshal(body.Data, &result); err != nil {
			t.Fatalf("decode spin: %v", err)
		}
		if result.SpinsLeft != 2-i {
			t.Fatalf("spin %d: spins_left = %d, want %d", i, result.SpinsLeft, 2-i)
		}
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/wheel/spin", SpinRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "NO_SPINS_LEFT" {
		t.Fatalf("exhausted spin: status=%d error=%+v", resp.StatusCode, body.Error)
	}

	user, err := env.db.GetUser(ctx, 1)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Points != 300 {
		t.Fatalf("points = %d, want 300", user.Points)
	}
}

func TestSpinAgainstEmptyWheelKeepsBudget(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 0)

	resp, body := env.do(t, http.MethodPost, "/api/v1/wheel/spin", SpinRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "WHEEL_EMPTY" {
		t.Fatalf("empty wheel spin: status=%d error=%+v", resp.StatusCode, body.Error)
	}

	// The rejected spin must not burn the daily allowance.
	left, err := env.db.SpinsLeft(ctx, 1, env.handler.cfg.Wheel.DailySpins)
	if err != nil {
		t.Fatalf("spins left: %v", err)
	}
	if left != env.handler.cfg.Wheel.DailySpins {
		t.Fatalf("spins left = %d, want %d", left, env.handler.cfg.Wheel.DailySpins)
	}

	if _, err := env.db.CreateWheelPrize(ctx, &models.WheelPrize{Label: "50 pts", Points: 50, Weight: 1, IsActive: true}); err != nil {
		t.Fatalf("seed prize: %v", err)
	}
	resp, body = env.do(t, http.MethodPost, "/api/v1/wheel/spin", SpinRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("spin after seeding: status = %d", resp.StatusCode)
	}
	var result models.SpinResult
	if err := json.Unmarshal(body.Data, &result); err != nil {
		t.Fatalf("decode spin: %v", err)
	}
	if result.SpinsLeft != env.handler.cfg.Wheel.DailySpins-1 {
		t.Fatalf("spins_left = %d, want %d", result.SpinsLeft, env.handler.cfg.Wheel.DailySpins-1)
	}
}

func TestPurchaseDebitsAndRejectsOverdraft(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 100)

	item, err := env.db.CreateShopItem(ctx, &models.ShopItem{Name: "Badge", Price: 80, Stock: -1, IsActive: true})
	if err != nil {
		t.Fatalf("seed item: %v", err)
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/shop/purchase",
		PurchaseRequest{UserID: 1, ItemID: item.ID}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("purchase status = %d", resp.StatusCode)
	}
	var view purchaseView
	if err := json.Unmarshal(body.Data, &view); err != nil {
		t.Fatalf("decode purchase: %v", err)
	}
	if view.Balance != 20 {
		t.Fatalf("balance = %d, want 20", view.Balance)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/shop/purchase",
		PurchaseRequest{UserID: 1, ItemID: item.ID}, "")
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "INSUFFICIENT_POINTS" {
		t.Fatalf("overdraft: status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestClaimTaskOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 0)

	task, err := env.db.CreateTask(ctx, &models.Task{Title: "Join channel", RewardPoints: 50, RewardXP: 10, IsActive: true})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}

	resp, _ := env.do(t, http.MethodPost, "/api/v1/tasks/claim",
		ClaimRequest{UserID: 1, TaskID: task.ID}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("claim status = %d", resp.StatusCode)
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/tasks/claim",
		ClaimRequest{UserID: 1, TaskID: task.ID}, "")
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "ALREADY_CLAIMED" {
		t.Fatalf("second claim: status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestRedeemPromocodeOncePerUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 0)

	if _, err := env.db.CreatePromocode(ctx, &models.Promocode{Code: "WELCOME", Points: 25, IsActive: true}); err != nil {
		t.Fatalf("seed promo: %v", err)
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/promo/redeem",
		RedeemRequest{UserID: 1, Code: "WELCOME"}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("redeem status = %d error=%+v", resp.StatusCode, body.Error)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/promo/redeem",
		RedeemRequest{UserID: 1, Code: "WELCOME"}, "")
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "PROMO_REDEEMED" {
		t.Fatalf("second redeem: status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestBannedUserRejectedFromMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedUser(t, 1, 500)

	if err := env.db.SetBanned(ctx, 1, true); err != nil {
		t.Fatalf("ban user: %v", err)
	}

	resp, body := env.do(t, http.MethodPost, "/api/v1/wheel/spin", SpinRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusForbidden || body.Error == nil || body.Error.Code != "USER_BANNED" {
		t.Fatalf("banned spin: status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestRaffleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, 1000)
	token := env.login(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/admin/tickets",
		TicketEventRequest{Title: "Monthly raffle", TicketPrice: 100}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create event status = %d", resp.StatusCode)
	}
	var event models.TicketEvent
	if err := json.Unmarshal(body.Data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/tickets/buy",
		BuyTicketsRequest{UserID: 1, EventID: event.ID, Count: 3}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("buy status = %d error=%+v", resp.StatusCode, body.Error)
	}
	var bought buyTicketsView
	if err := json.Unmarshal(body.Data, &bought); err != nil {
		t.Fatalf("decode tickets: %v", err)
	}
	if len(bought.Tickets) != 3 || bought.Balance != 700 {
		t.Fatalf("tickets=%d balance=%d", len(bought.Tickets), bought.Balance)
	}

	// Draw before close must fail.
	resp, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/tickets/%d/draw", event.ID), nil, token)
	if resp.StatusCode != http.StatusConflict || body.Error == nil || body.Error.Code != "EVENT_NOT_CLOSED" {
		t.Fatalf("early draw: status=%d error=%+v", resp.StatusCode, body.Error)
	}

	resp, _ = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/tickets/%d/close", event.ID), nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("close status = %d", resp.StatusCode)
	}

	resp, body = env.do(t, http.MethodPost, fmt.Sprintf("/api/v1/admin/tickets/%d/draw", event.ID), nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("draw status = %d error=%+v", resp.StatusCode, body.Error)
	}
	var drawn models.TicketEvent
	if err := json.Unmarshal(body.Data, &drawn); err != nil {
		t.Fatalf("decode drawn: %v", err)
	}
	if drawn.Status != models.TicketEventDrawn || drawn.WinnerID == nil || *drawn.WinnerID != 1 {
		t.Fatalf("drawn = %+v", drawn)
	}
}

func TestAdminAdjustWritesHistory(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, 0)
	token := env.login(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/admin/users/1/adjust",
		AdjustRequest{PointsDelta: 250, XPDelta: 25}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("adjust status = %d error=%+v", resp.StatusCode, body.Error)
	}
	var user models.User
	if err := json.Unmarshal(body.Data, &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Points != 250 || user.XP != 25 {
		t.Fatalf("user = %+v", user)
	}

	history, err := env.db.ListPointHistory(context.Background(), 1, 10, 0)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(history) != 1 || history[0].Reason != reward.ReasonAdminAdjust || history[0].Actor != "admin:admin" {
		t.Fatalf("history = %+v", history)
	}
}

func TestAdjustRejectsEmptyDelta(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, 0)
	token := env.login(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/admin/users/1/adjust", AdjustRequest{}, token)
	if resp.StatusCode != http.StatusBadRequest || body.Error == nil || body.Error.Code != "EMPTY_ADJUSTMENT" {
		t.Fatalf("status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestSponsorReorder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	token := env.login(t)

	first, err := env.db.CreateSponsor(ctx, &models.Sponsor{Name: "Acme", URL: "https://acme.example", IsActive: true, SortOrder: 0})
	if err != nil {
		t.Fatalf("seed sponsor: %v", err)
	}
	second, err := env.db.CreateSponsor(ctx, &models.Sponsor{Name: "Globex", URL: "https://globex.example", IsActive: true, SortOrder: 1})
	if err != nil {
		t.Fatalf("seed sponsor: %v", err)
	}

	resp, body := env.do(t, http.MethodPut, "/api/v1/admin/sponsors/reorder",
		ReorderRequest{IDs: []int64{second.ID, first.ID}}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reorder status = %d", resp.StatusCode)
	}
	var sponsors []models.Sponsor
	if err := json.Unmarshal(body.Data, &sponsors); err != nil {
		t.Fatalf("decode sponsors: %v", err)
	}
	if len(sponsors) != 2 || sponsors[0].ID != second.ID || sponsors[1].ID != first.ID {
		t.Fatalf("order after reorder = %+v", sponsors)
	}

	// An unknown id aborts the batch and leaves the order untouched.
	resp, body = env.do(t, http.MethodPut, "/api/v1/admin/sponsors/reorder",
		ReorderRequest{IDs: []int64{first.ID, 999}}, token)
	if resp.StatusCode != http.StatusNotFound || body.Error == nil {
		t.Fatalf("unknown id: status=%d error=%+v", resp.StatusCode, body.Error)
	}
	after, err := env.db.ListSponsors(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if after[0].ID != second.ID {
		t.Fatalf("order changed after rejected batch: %+v", after)
	}
}

func TestSpinValidationError(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/api/v1/wheel/spin", map[string]int{"user_id": 0}, "")
	if resp.StatusCode != http.StatusBadRequest || body.Error == nil {
		t.Fatalf("status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestLeaderboardIncludesCaller(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, 100)
	env.seedUser(t, 2, 500)

	resp, body := env.do(t, http.MethodGet, "/api/v1/leaderboard?user_id=1", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("leaderboard status = %d", resp.StatusCode)
	}
	var view leaderboardView
	if err := json.Unmarshal(body.Data, &view); err != nil {
		t.Fatalf("decode leaderboard: %v", err)
	}
	if len(view.Entries) != 2 || view.Total != 2 {
		t.Fatalf("entries=%d total=%d", len(view.Entries), view.Total)
	}
	if view.Me == nil || view.Me.UserID != 1 || view.Me.Position != 2 {
		t.Fatalf("me = %+v", view.Me)
	}
}

func TestBlackjackOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, 1000)

	resp, body := env.do(t, http.MethodPost, "/api/v1/games/blackjack",
		BetRequest{UserID: 1, Bet: 100}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start status = %d error=%+v", resp.StatusCode, body.Error)
	}
	var view games.BlackjackView
	if err := json.Unmarshal(body.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.State == models.GameRoundSettled {
		return // natural, nothing left to play
	}

	resp, body = env.do(t, http.MethodPost, "/api/v1/games/blackjack/"+view.RoundID+"/stand",
		RoundActionRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stand status = %d error=%+v", resp.StatusCode, body.Error)
	}

	// Acting on a settled round is a 404.
	resp, body = env.do(t, http.MethodPost, "/api/v1/games/blackjack/"+view.RoundID+"/stand",
		RoundActionRequest{UserID: 1}, "")
	if resp.StatusCode != http.StatusNotFound || body.Error == nil || body.Error.Code != "ROUND_NOT_FOUND" {
		t.Fatalf("settled stand: status=%d error=%+v", resp.StatusCode, body.Error)
	}
}

func TestGamesDisabledOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.handler.cfg.Games.Enabled = false
	env.seedUser(t, 1, 1000)

	// games.Service holds its own copy of the config, so rebuild it.
	rewards := reward.NewService(env.db, env.cache, nil, nil)
	env.handler.games = games.NewService(env.db, env.handler.cfg.Games, rewards.GameHook())

	resp, body := env.do(t, http.MethodPost, "/api/v1/games/roulette",
		RouletteRequest{UserID: 1, Bet: 100, Kind: "red"}, "")
	if resp.StatusCode != http.StatusServiceUnavailable || body.Error == nil || body.Error.Code != "GAMES_DISABLED" {
		t.Fatalf("status=%d error=%+v", resp.StatusCode, body.Error)
	}
}
