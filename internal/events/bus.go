// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package events

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/playforge/playforge/internal/metrics"
)

// defaultChannelBuffer bounds per-subscriber channels so a stalled
// consumer cannot block publishers indefinitely.
const defaultChannelBuffer = 256

// Bus is the in-process Pub/Sub. Publishing happens after database
// commits, so delivery is at-most-once with respect to process crashes;
// consumers must tolerate missed events (the read APIs remain the
// source of truth).
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates the in-memory bus.
func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: defaultChannelBuffer},
			newWatermillLogger(),
		),
	}
}

// PublishReward emits a settlement event on TopicRewards.
func (b *Bus) PublishReward(e *RewardEvent) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}
	return b.publish(TopicRewards, e.EventID, data)
}

// PublishBroadcast emits an announcement on TopicBroadcast.
func (b *Bus) PublishBroadcast(e *BroadcastEvent) error {
	data, err := e.Marshal()
	if err != nil {
		return err
	}
	return b.publish(TopicBroadcast, e.EventID, data)
}

func (b *Bus) publish(topic, uuid string, payload []byte) error {
	msg := message.NewMessage(uuid, payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// Subscribe returns a message channel for the given topic. The channel
// closes when ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Subscriber exposes the bus for router handler registration.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close shuts down the Pub/Sub and closes all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
