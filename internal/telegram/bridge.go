// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package telegram

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/playforge/playforge/internal/events"
	"github.com/playforge/playforge/internal/logging"
)

// RegisterBroadcastConsumer fans operator broadcasts published on the bus
// out to every registered Telegram user. The fan-out runs on the router's
// consumer goroutine, so a slow Telegram API backs up only this handler,
// never the publisher.
func RegisterBroadcastConsumer(router *events.Router, bus *events.Bus, bot *Bot) {
	router.AddConsumerHandler("telegram-broadcast", events.TopicBroadcast, bus.Subscriber(),
		func(msg *message.Message) error {
			e, err := events.UnmarshalBroadcastEvent(msg.Payload)
			if err != nil {
				return err
			}

			text := e.Title
			if e.Body != "" {
				text = fmt.Sprintf("%s\n\n%s", e.Title, e.Body)
			}

			delivered, err := bot.Broadcast(msg.Context(), text)
			if err != nil {
				return err
			}
			logging.Info().Int("delivered", delivered).Str("event_id", e.EventID).Msg("Broadcast delivered")
			return nil
		})
}
