package services

import (
	"time"

	"classroom-module/config"
	"classroom-module/logger"
)

// ChatRelay publishes chat messages to the external messaging channel via
// Kafka. Delivery is fire-and-forget: a bot on the consuming side forwards
// the text to the user's chat.
type ChatRelay struct{}

// NewChatRelay creates a new ChatRelay.
func NewChatRelay() *ChatRelay {
	return &ChatRelay{}
}

// Send publishes one chat.message event keyed by the recipient.
func (c *ChatRelay) Send(userID, text string) error {
	evt := map[string]interface{}{
		"event":   "chat.message",
		"user_id": userID,
		"text":    text,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	}

	// Non-blocking publish - failure doesn't affect the workflow
	go func() {
		if err := Publish(config.AppConfig.ChatTopic, "user-"+userID, evt); err != nil {
			logger.Warn("Failed to publish chat message for user %s: %v", userID, err)
		}
	}()

	return nil
}
