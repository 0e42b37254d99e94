// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/cache"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/reward"
)

type recordingSender struct {
	messages []string
	chatIDs  []int64
}

func (r *recordingSender) SendMessage(_ context.Context, chatID int64, text string) error {
	r.chatIDs = append(r.chatIDs, chatID)
	r.messages = append(r.messages, text)
	return nil
}

func newTestBot(t *testing.T) (*Bot, *database.DB, *recordingSender) {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{Path: ":memory:"})
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rewards := reward.NewService(db, cache.New(time.Minute), nil, nil)
	sender := &recordingSender{}
	return NewBot(db, rewards, sender, nil, "hook-secret"), db, sender
}

func messageUpdate(userID int64, username, first, text string) *Update {
	return &Update{
		UpdateID: 1,
		Message: &Message{
			From: &User{ID: userID, Username: username, FirstName: first},
			Chat: Chat{ID: userID, Type: "private"},
			Text: text,
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/start", "/start"},
		{"/start payload", "/start"},
		{"/POINTS", "/points"},
		{"/help@playforge_bot", "/help"},
		{"hello there", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseCommand(tt.in); got != tt.want {
			t.Errorf("parseCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStartRegistersAndCreditsBonus(t *testing.T) {
	bot, db, sender := newTestBot(t)
	ctx := context.Background()

	if err := bot.HandleUpdate(ctx, messageUpdate(7, "alice", "Alice", "/start")); err != nil {
		t.Fatalf("handle /start: %v", err)
	}

	user, err := db.GetUser(ctx, 7)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Points != signupBonus {
		t.Fatalf("points = %d, want %d", user.Points, signupBonus)
	}
	if len(sender.messages) != 1 || !strings.Contains(sender.messages[0], "Welcome, Alice") {
		t.Fatalf("unexpected reply %v", sender.messages)
	}

	// Second /start is a no-op for the balance.
	if err := bot.HandleUpdate(ctx, messageUpdate(7, "alice", "Alice", "/start")); err != nil {
		t.Fatalf("second /start: %v", err)
	}
	user, _ = db.GetUser(ctx, 7)
	if user.Points != signupBonus {
		t.Fatalf("repeat /start changed balance to %d", user.Points)
	}
	if !strings.Contains(sender.messages[1], "Welcome back") {
		t.Fatalf("unexpected second reply %q", sender.messages[1])
	}
}

func TestPointsCommand(t *testing.T) {
	bot, db, sender := newTestBot(t)
	ctx := context.Background()

	// Unregistered user is told to /start.
	if err := bot.HandleUpdate(ctx, messageUpdate(9, "bob", "Bob", "/points")); err != nil {
		t.Fatalf("handle /points: %v", err)
	}
	if !strings.Contains(sender.messages[0], "/start") {
		t.Fatalf("unexpected reply %q", sender.messages[0])
	}

	if _, err := db.UpsertUser(ctx, 9, "bob", "Bob"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := db.ApplyReward(ctx, 9, 420, 42, "seed", "test"); err != nil {
		t.Fatalf("seed points: %v", err)
	}

	if err := bot.HandleUpdate(ctx, messageUpdate(9, "bob", "Bob", "/points")); err != nil {
		t.Fatalf("handle /points: %v", err)
	}
	if !strings.Contains(sender.messages[1], "Points: 420") {
		t.Fatalf("unexpected reply %q", sender.messages[1])
	}
}

func TestWebhookRejectsBadSecret(t *testing.T) {
	bot, _, _ := newTestBot(t)
	handler := bot.WebhookHandler()

	body, _ := json.Marshal(messageUpdate(7, "alice", "Alice", "/help"))

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(string(body)))
	req.Header.Set(secretTokenHeader, "wrong")
	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(string(body)))
	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing header: status = %d, want 403", rec.Code)
	}
}

func TestWebhookProcessesUpdate(t *testing.T) {
	bot, db, _ := newTestBot(t)
	handler := bot.WebhookHandler()

	body, _ := json.Marshal(messageUpdate(11, "carol", "Carol", "/start"))
	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(string(body)))
	req.Header.Set(secretTokenHeader, "hook-secret")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, err := db.GetUser(context.Background(), 11); err != nil {
		t.Fatalf("user not registered via webhook: %v", err)
	}
}

type bannedChecker struct{}

func (bannedChecker) IsBanned(int64) (bool, error) { return true, nil }

func TestBannedUserIgnored(t *testing.T) {
	bot, db, sender := newTestBot(t)
	bot.bans = bannedChecker{}
	ctx := context.Background()

	if err := bot.HandleUpdate(ctx, messageUpdate(13, "mallory", "Mallory", "/start")); err != nil {
		t.Fatalf("handle update: %v", err)
	}
	if len(sender.messages) != 0 {
		t.Fatalf("banned user got a reply: %v", sender.messages)
	}
	if _, err := db.GetUser(ctx, 13); err == nil {
		t.Fatal("banned user was registered")
	}
}

func TestClientSendMessage(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(config.TelegramConfig{
		BotToken:    "123:abc",
		APIBaseURL:  srv.URL,
		SendTimeout: time.Second,
	})
	if err := c.SendMessage(context.Background(), 42, "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.ChatID != 42 || gotBody.Text != "hi" {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient(config.TelegramConfig{BotToken: "t", APIBaseURL: srv.URL, SendTimeout: time.Second})
	if err := c.SendMessage(context.Background(), 1, "hi"); err == nil {
		t.Fatal("expected error from not-ok response")
	}
}
