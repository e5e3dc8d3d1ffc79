package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"classroom-module/config"
	"classroom-module/logger"
)

// StartEmailWorker starts a Kafka consumer that reads email.send events
// from the email topic and delivers them via SMTP. It returns immediately;
// the worker stops when ctx is cancelled. When Kafka is disabled it does
// nothing.
func StartEmailWorker(ctx context.Context) {
	if config.AppConfig.KafkaBrokers == "" {
		logger.Info("Email worker is disabled (KAFKA_BROKERS is empty)")
		return
	}

	var brokers []string
	for _, b := range strings.Split(config.AppConfig.KafkaBrokers, ",") {
		if b := strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if len(brokers) == 0 {
		logger.Warn("No valid Kafka brokers configured for the email worker")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          config.AppConfig.EmailTopic,
		GroupID:        config.AppConfig.ConsumerGroup,
		StartOffset:    kafka.LastOffset,
		CommitInterval: time.Second,
		MaxBytes:       10e6,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: time.Second,
	})

	logger.Info("Email worker started. Brokers=%v, Topic=%s, Group=%s", brokers, config.AppConfig.EmailTopic, config.AppConfig.ConsumerGroup)

	go func() {
		defer reader.Close()
		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					logger.Info("Email worker stopped")
					return
				}
				logger.Warn("Email worker read error: %v", err)
				continue
			}

			var evt map[string]interface{}
			if err := json.Unmarshal(msg.Value, &evt); err != nil {
				logger.Error("Email worker received malformed event: %v", err)
				continue
			}
			if evt["event"] != "email.send" {
				continue
			}

			to, _ := evt["recipient"].(string)
			subject, _ := evt["subject"].(string)
			body, _ := evt["body"].(string)
			if to == "" {
				logger.Warn("Email event without recipient, skipping")
				continue
			}

			var err2 error
			if attachment, ok := evt["attachment"].(string); ok && attachment != "" {
				err2 = SendEmailDirect(to, subject, body, attachment)
			} else {
				err2 = SendEmailDirect(to, subject, body)
			}
			if err2 != nil {
				logger.Error("Email worker failed to deliver to %s: %v", to, err2)
			}
		}
	}()
}
