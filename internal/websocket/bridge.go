// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package websocket

import (
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/playforge/playforge/internal/events"
)

// RegisterConsumers wires the hub to the event bus. Reward settlements
// and operator broadcasts published on the bus are forwarded to every
// connected client.
func RegisterConsumers(router *events.Router, bus *events.Bus, hub *Hub) {
	router.AddConsumerHandler("ws-rewards", events.TopicRewards, bus.Subscriber(),
		func(msg *message.Message) error {
			e, err := events.UnmarshalRewardEvent(msg.Payload)
			if err != nil {
				return err
			}
			hub.BroadcastReward(e)
			return nil
		})

	router.AddConsumerHandler("ws-broadcast", events.TopicBroadcast, bus.Subscriber(),
		func(msg *message.Message) error {
			e, err := events.UnmarshalBroadcastEvent(msg.Payload)
			if err != nil {
				return err
			}
			hub.BroadcastAnnouncement(e.Title, e.Body)
			return nil
		})
}
