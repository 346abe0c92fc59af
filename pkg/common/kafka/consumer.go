package kafka

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/wellnesshub/platform/pkg/common/config"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
)

type Consumer struct {
	reader *kafka.Reader
}

type EventHandler func(ctx context.Context, event models.Event) error

// RecordHandler processes one parsed record envelope.
type RecordHandler func(ctx context.Context, eventID string, env RecordEnvelope) error

func NewConsumer(topic string, groupID string) *Consumer {
	cfg := config.Load()
	if groupID == "" {
		groupID = cfg.KafkaGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	return &Consumer{reader: reader}
}

// ConsumeRecords runs Consume with envelope parsing in front of the handler.
// Malformed envelopes are committed and dropped; they would never parse on
// a retry either.
func (c *Consumer) ConsumeRecords(ctx context.Context, handler RecordHandler) error {
	return c.Consume(ctx, func(ctx context.Context, event models.Event) error {
		env, err := ParseRecordEnvelope(event.Data)
		if err != nil {
			logger.Log.WithError(err).WithField("event_id", event.ID).Error("dropping malformed record envelope")
			return nil
		}
		return handler(ctx, event.ID, env)
	})
}

func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			message, err := c.reader.FetchMessage(ctx)
			if err != nil {
				logger.Log.WithError(err).Error("failed to fetch message")
				continue
			}

			var event models.Event
			if err := json.Unmarshal(message.Value, &event); err != nil {
				logger.Log.WithError(err).Error("failed to unmarshal event")
				c.reader.CommitMessages(ctx, message)
				continue
			}

			if err := handler(ctx, event); err != nil {
				logger.Log.WithError(err).WithFields(map[string]interface{}{
					"event_id": event.ID,
				}).Error("failed to process event")
				// No commit on handler error, the event is refetched.
				continue
			}

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Log.WithError(err).Error("failed to commit message")
			}
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
