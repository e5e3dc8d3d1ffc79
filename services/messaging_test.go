package services

import (
	"testing"
	"time"

	"classroom-module/config"
)

// The chat and email channels are fire-and-forget: the publish happens off
// the request path, so an unreachable broker must not delay the caller.

func TestChatRelaySendDoesNotBlock(t *testing.T) {
	saved := config.AppConfig.KafkaBrokers
	config.AppConfig.KafkaBrokers = "127.0.0.1:1"
	defer func() { config.AppConfig.KafkaBrokers = saved }()

	start := time.Now()
	if err := NewChatRelay().Send("u1", "hello"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Send() took %v against an unreachable broker, must return immediately", elapsed)
	}
}

func TestEmailQueueDoesNotBlock(t *testing.T) {
	saved := config.AppConfig.KafkaBrokers
	config.AppConfig.KafkaBrokers = "127.0.0.1:1"
	defer func() { config.AppConfig.KafkaBrokers = saved }()

	start := time.Now()
	if err := NewEmailQueue().Queue("u1@school.test", "subject", "body"); err != nil {
		t.Fatalf("Queue() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Queue() took %v against an unreachable broker, must return immediately", elapsed)
	}
}

func TestChatRelaySendWithKafkaDisabled(t *testing.T) {
	saved := config.AppConfig.KafkaBrokers
	config.AppConfig.KafkaBrokers = ""
	defer func() { config.AppConfig.KafkaBrokers = saved }()

	if err := NewChatRelay().Send("u1", "hello"); err != nil {
		t.Fatalf("Send() with Kafka disabled error: %v", err)
	}
}
