// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package telegram

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/metrics"
	"github.com/playforge/playforge/internal/reward"
)

// secretTokenHeader carries the webhook secret set via setWebhook.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// signupBonus is credited once when a new user registers via /start.
const signupBonus = 100

// Sender is the outbound message surface the bot needs.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// BanChecker answers whether a user is currently banned.
type BanChecker interface {
	IsBanned(userID int64) (bool, error)
}

// Bot dispatches inbound webhook updates to command handlers.
type Bot struct {
	db      *database.DB
	rewards *reward.Service
	sender  Sender
	bans    BanChecker
	secret  string
}

// NewBot wires the command router. bans may be nil.
func NewBot(db *database.DB, rewards *reward.Service, sender Sender, bans BanChecker, webhookSecret string) *Bot {
	return &Bot{db: db, rewards: rewards, sender: sender, bans: bans, secret: webhookSecret}
}

// WebhookHandler returns the HTTP handler for the Bot API webhook. A
// missing or wrong secret token is rejected before the body is read.
// The handler always answers 200 to valid requests; update processing
// failures are logged, not surfaced, so Telegram does not redeliver.
func (b *Bot) WebhookHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(secretTokenHeader)
		if b.secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(b.secret)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var update Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		if err := b.HandleUpdate(r.Context(), &update); err != nil {
			logging.Error().Err(err).Int64("update_id", update.UpdateID).Msg("telegram update failed")
		}
		w.WriteHeader(http.StatusOK)
	}
}

// HandleUpdate routes one update. Non-message updates and messages
// from bots are counted and ignored.
func (b *Bot) HandleUpdate(ctx context.Context, update *Update) error {
	if update.Message == nil {
		metrics.TelegramUpdates.WithLabelValues("other").Inc()
		return nil
	}
	metrics.TelegramUpdates.WithLabelValues("message").Inc()

	msg := update.Message
	if msg.From == nil || msg.From.IsBot {
		return nil
	}

	if b.bans != nil {
		banned, err := b.bans.IsBanned(msg.From.ID)
		if err != nil {
			logging.Warn().Err(err).Int64("user_id", msg.From.ID).Msg("ban check failed")
		} else if banned {
			return nil
		}
	}

	command := parseCommand(msg.Text)
	switch command {
	case "/start":
		return b.handleStart(ctx, msg)
	case "/points":
		return b.handlePoints(ctx, msg)
	case "/help":
		return b.reply(ctx, msg.Chat.ID, helpText)
	case "":
		return nil
	default:
		return b.reply(ctx, msg.Chat.ID, "Unknown command. Try /help.")
	}
}

const helpText = `Commands:
/start - register and claim your welcome bonus
/points - show your balance, XP and rank
/help - this message`

// parseCommand extracts the leading bot command, stripping the
// @botname suffix used in group chats.
func parseCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	command := strings.Fields(text)[0]
	if at := strings.Index(command, "@"); at > 0 {
		command = command[:at]
	}
	return strings.ToLower(command)
}

// handleStart registers the user and credits the one-time signup bonus
// to first-time registrations.
func (b *Bot) handleStart(ctx context.Context, msg *Message) error {
	_, err := b.db.GetUser(ctx, msg.From.ID)
	isNew := errors.Is(err, database.ErrNotFound)
	if err != nil && !isNew {
		return err
	}

	user, err := b.db.UpsertUser(ctx, msg.From.ID, msg.From.Username, msg.From.FirstName)
	if err != nil {
		return err
	}

	if isNew && b.rewards != nil {
		actor := fmt.Sprintf("telegram:%d", msg.From.ID)
		if user, err = b.rewards.Apply(ctx, user.ID, signupBonus, 0, reward.ReasonSignupBonus, actor); err != nil {
			return err
		}
		return b.reply(ctx, msg.Chat.ID,
			fmt.Sprintf("Welcome, %s! You start with %d points.", msg.From.FirstName, user.Points))
	}
	return b.reply(ctx, msg.Chat.ID,
		fmt.Sprintf("Welcome back, %s. You have %d points.", msg.From.FirstName, user.Points))
}

func (b *Bot) handlePoints(ctx context.Context, msg *Message) error {
	user, err := b.db.GetUser(ctx, msg.From.ID)
	if errors.Is(err, database.ErrNotFound) {
		return b.reply(ctx, msg.Chat.ID, "You are not registered yet. Send /start first.")
	}
	if err != nil {
		return err
	}

	rank, err := b.db.RankForXP(ctx, user.XP)
	rankName := "unranked"
	if err == nil && rank != nil {
		rankName = rank.Name
	}

	return b.reply(ctx, msg.Chat.ID,
		fmt.Sprintf("Points: %d\nXP: %d\nRank: %s", user.Points, user.XP, rankName))
}

// reply sends best-effort; a Telegram outage never fails the update.
func (b *Bot) reply(ctx context.Context, chatID int64, text string) error {
	if b.sender == nil {
		return nil
	}
	if err := b.sender.SendMessage(ctx, chatID, text); err != nil {
		logging.Warn().Err(err).Int64("chat_id", chatID).Msg("telegram reply failed")
	}
	return nil
}

// Broadcast fans text out to every registered user. Send failures are
// logged and skipped so one blocked chat cannot stall the whole run.
// Returns the number of delivered messages.
func (b *Bot) Broadcast(ctx context.Context, text string) (int, error) {
	if b.sender == nil {
		return 0, nil
	}

	ids, err := b.db.ListUserIDs(ctx)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := b.sender.SendMessage(ctx, id, text); err != nil {
			logging.Warn().Err(err).Int64("chat_id", id).Msg("broadcast send failed")
			continue
		}
		delivered++
	}
	return delivered, nil
}
