package model

import "time"

const (
	EventPostHidden      = "post_hidden"
	EventPostUnhidden    = "post_unhidden"
	EventCommentHidden   = "comment_hidden"
	EventCommentUnhidden = "comment_unhidden"
	EventUserBanned      = "user_banned"
	EventUserUnbanned    = "user_unbanned"
	EventPostLiked       = "post_liked"
)

// ModerationOutbox buffers moderation and notification side effects so they
// are committed with the triggering write and delivered asynchronously.
type ModerationOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"`
	TargetID  uint64 `gorm:"not null"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0"` // 0=pending 1=sent 2=failed
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ModerationOutbox) TableName() string { return "moderation_outbox" }
