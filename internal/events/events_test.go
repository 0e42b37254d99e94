// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
)

func TestRewardEventValidate(t *testing.T) {
	e := NewRewardEvent(42, "wheel_spin", 100, 10, 600)
	if err := e.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}
	if e.EventID == "" {
		t.Fatal("expected generated event ID")
	}
	if e.Type != EventRewardSettled {
		t.Fatalf("unexpected type %q", e.Type)
	}

	e.Reason = ""
	if err := e.Validate(); err == nil {
		t.Fatal("expected error for missing reason")
	}
}

func TestRewardEventRoundTrip(t *testing.T) {
	e := NewRewardEvent(7, "task_claim", 250, 25, 1250)
	data, err := e.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := UnmarshalRewardEvent(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.UserID != 7 || got.Reason != "task_claim" || got.PointsDelta != 250 || got.Balance != 1250 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgs, err := bus.Subscribe(ctx, TopicRewards)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	want := NewRewardEvent(1, "promo_redeem", 500, 0, 500)
	if err := bus.PublishReward(want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-msgs:
		got, err := UnmarshalRewardEvent(msg.Payload)
		if err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.EventID != want.EventID {
			t.Fatalf("event ID mismatch: got %s want %s", got.EventID, want.EventID)
		}
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBusRejectsInvalidEvent(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	e := NewRewardEvent(0, "", 0, 0, 0)
	if err := bus.PublishReward(e); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRouterConsumesEvents(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	router, err := NewRouter(nil)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	defer func() { _ = router.Close() }()

	received := make(chan *RewardEvent, 1)
	router.AddConsumerHandler("test-consumer", TopicRewards, bus.Subscriber(), func(msg *message.Message) error {
		e, err := UnmarshalRewardEvent(msg.Payload)
		if err != nil {
			return err
		}
		received <- e
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Serve(ctx) }()
	<-router.Running()

	want := NewRewardEvent(99, "game_payout", 300, 0, 800)
	if err := bus.PublishReward(want); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		if got.UserID != 99 || got.Reason != "game_payout" {
			t.Fatalf("unexpected event: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not receive event")
	}
}

func TestRouterRetriesTransientFailures(t *testing.T) {
	bus := NewBus()
	defer func() { _ = bus.Close() }()

	cfg := DefaultRouterConfig()
	cfg.RetryInitialInterval = 10 * time.Millisecond
	cfg.RetryMaxInterval = 50 * time.Millisecond
	router, err := NewRouter(&cfg)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	defer func() { _ = router.Close() }()

	var attempts atomic.Int64
	done := make(chan struct{})
	router.AddConsumerHandler("flaky-consumer", TopicBroadcast, bus.Subscriber(), func(msg *message.Message) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = router.Serve(ctx) }()
	<-router.Running()

	if err := bus.PublishBroadcast(NewBroadcastEvent("maintenance", "back soon")); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case <-done:
		if got := attempts.Load(); got != 3 {
			t.Fatalf("expected 3 attempts, got %d", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("handler never succeeded")
	}
}
