package mysql

import (
	"context"
	"encoding/json"
	"time"

	"campusanon/internal/model"

	"gorm.io/gorm"
)

type OutboxRepository struct {
	DB *gorm.DB
}

// Insert buffers a moderation/notification event. Pass the transaction handle
// when the event must commit with the triggering write.
func (r *OutboxRepository) Insert(tx *gorm.DB, eventType string, targetID uint64, extra map[string]any) error {
	if tx == nil {
		tx = r.DB
	}
	body := map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"target_id":  targetID,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, _ := json.Marshal(body)
	return tx.Create(&model.ModerationOutbox{
		EventType: eventType,
		TargetID:  targetID,
		Payload:   string(payload),
	}).Error
}

func (r *OutboxRepository) ListPending(ctx context.Context, batchSize int) ([]model.ModerationOutbox, error) {
	var list []model.ModerationOutbox
	err := r.DB.WithContext(ctx).
		Where("status = 0").
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error
	return list, err
}

func (r *OutboxRepository) MarkFailed(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Updates(map[string]any{"status": 2, "retry": gorm.Expr("retry + 1")}).Error
}

func (r *OutboxRepository) MarkSent(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Model(&model.ModerationOutbox{}).Where("id = ?", id).
		Update("status", 1).Error
}
