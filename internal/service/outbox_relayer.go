package service

import (
	"context"
	"log"
	"time"

	"campusanon/internal/model"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"
)

type Sender func(ctx context.Context, ev *model.ModerationOutbox) error

// OutboxRelayer drains pending moderation/notification events to the
// configured sink on a fixed tick.
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(sender Sender) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      &mysql.OutboxRepository{DB: mysql.DB},
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
	}
}

func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

func (r *OutboxRelayer) drainOnce(ctx context.Context) {
	rows, err := r.repo.ListPending(ctx, r.batchSize)
	if err != nil {
		log.Printf("outbox query: %v", err)
		return
	}
	for i := range rows {
		ev := rows[i]
		if err := r.sender(ctx, &ev); err != nil {
			_ = r.repo.MarkFailed(ctx, ev.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ev.ID)
	}
}

// KafkaSender drains the outbox into the moderation topic.
func KafkaSender(producer *pkg.ModerationProducer) Sender {
	return producer.Publish
}

// LogSender is the fallback sink when no broker is configured.
func LogSender(ctx context.Context, ev *model.ModerationOutbox) error {
	log.Printf("OUTBOX SEND type=%s target=%d payload=%s", ev.EventType, ev.TargetID, ev.Payload)
	return nil
}
