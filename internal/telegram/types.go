// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package telegram integrates the community bot: an inbound webhook
// consuming Bot API updates and an outbound sendMessage client guarded
// by a circuit breaker. Outbound sends are best-effort and never fail
// the mutation that triggered them.
package telegram

// Update is one inbound Bot API update. Only the fields the bot reads
// are declared; everything else is ignored on decode.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an inbound chat message.
type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from,omitempty"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text,omitempty"`
}

// User is the sending Telegram account.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}

// Chat is the conversation the message arrived in.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// sendMessageRequest is the outbound sendMessage payload.
type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}
