// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

// Package events provides the in-process event bus connecting reward
// mutations to their downstream consumers (WebSocket fan-out, activity
// logging). Events are JSON-encoded Watermill messages routed through
// an in-memory Pub/Sub.
package events

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Topics carried by the bus.
const (
	// TopicRewards carries balance-changing events (settlements, purchases,
	// claims, game outcomes).
	TopicRewards = "rewards"

	// TopicBroadcast carries operator announcements destined for every
	// connected client.
	TopicBroadcast = "broadcast"
)

// Event types for TopicRewards.
const (
	EventRewardSettled      = "reward_settled"
	EventLeaderboardChanged = "leaderboard_changed"
)

// Event types for TopicBroadcast.
const (
	EventAnnouncement = "announcement"
)

// RewardEvent describes a completed balance mutation. It is emitted
// after the database transaction commits, so consumers always observe
// the post-mutation balance.
type RewardEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	UserID      int64     `json:"user_id"`
	Reason      string    `json:"reason"`
	PointsDelta int64     `json:"points_delta"`
	XPDelta     int64     `json:"xp_delta,omitempty"`
	Balance     int64     `json:"balance"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewRewardEvent creates a settlement event with a unique ID and UTC timestamp.
func NewRewardEvent(userID int64, reason string, pointsDelta, xpDelta, balance int64) *RewardEvent {
	return &RewardEvent{
		EventID:     uuid.New().String(),
		Type:        EventRewardSettled,
		UserID:      userID,
		Reason:      reason,
		PointsDelta: pointsDelta,
		XPDelta:     xpDelta,
		Balance:     balance,
		OccurredAt:  time.Now().UTC(),
	}
}

// Validate checks required fields before publishing.
func (e *RewardEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("reward event missing event_id")
	}
	if e.Type == "" {
		return fmt.Errorf("reward event missing type")
	}
	if e.UserID == 0 {
		return fmt.Errorf("reward event missing user_id")
	}
	if e.Reason == "" {
		return fmt.Errorf("reward event missing reason")
	}
	return nil
}

// Marshal encodes the event for the wire.
func (e *RewardEvent) Marshal() ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal reward event: %w", err)
	}
	return data, nil
}

// UnmarshalRewardEvent decodes a reward event payload.
func UnmarshalRewardEvent(data []byte) (*RewardEvent, error) {
	var e RewardEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal reward event: %w", err)
	}
	return &e, nil
}

// BroadcastEvent is an operator-authored announcement pushed to all
// connected WebSocket clients and, optionally, Telegram subscribers.
type BroadcastEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	Title      string    `json:"title,omitempty"`
	Body       string    `json:"body"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewBroadcastEvent creates an announcement event.
func NewBroadcastEvent(title, body string) *BroadcastEvent {
	return &BroadcastEvent{
		EventID:    uuid.New().String(),
		Type:       EventAnnouncement,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
}

// Marshal encodes the event for the wire.
func (e *BroadcastEvent) Marshal() ([]byte, error) {
	if e.Body == "" {
		return nil, fmt.Errorf("broadcast event missing body")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal broadcast event: %w", err)
	}
	return data, nil
}

// UnmarshalBroadcastEvent decodes a broadcast event payload.
func UnmarshalBroadcastEvent(data []byte) (*BroadcastEvent, error) {
	var e BroadcastEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal broadcast event: %w", err)
	}
	return &e, nil
}
