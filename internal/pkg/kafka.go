package pkg

import (
	"context"
	"fmt"

	"campusanon/internal/model"

	"github.com/segmentio/kafka-go"
)

// ModerationProducer publishes buffered moderation and notification events.
// Messages are keyed "eventType:targetID" so the hash balancer keeps
// per-target ordering.
type ModerationProducer struct {
	writer *kafka.Writer
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func NewModerationProducer(cfg KafkaConfig) (*ModerationProducer, error) {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &ModerationProducer{writer: w}, nil
}

func (p *ModerationProducer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func eventKey(ev *model.ModerationOutbox) string {
	return fmt.Sprintf("%s:%d", ev.EventType, ev.TargetID)
}

// Publish ships one outbox row. The payload was serialized when the event was
// buffered, so the row travels as-is.
func (p *ModerationProducer) Publish(ctx context.Context, ev *model.ModerationOutbox) error {
	msg := kafka.Message{
		Key:   []byte(eventKey(ev)),
		Value: []byte(ev.Payload),
	}
	return p.writer.WriteMessages(ctx, msg)
}
