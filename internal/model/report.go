package model

import "time"

// PostReport accumulation drives auto-hide; deleting a row can drive
// auto-unhide. Unique per (reporter, post).
type PostReport struct {
	ID         uint64 `gorm:"primaryKey"`
	PostID     uint64 `gorm:"not null;index;uniqueIndex:uk_post_report"`
	ReporterID uint64 `gorm:"not null;uniqueIndex:uk_post_report"`
	Reason     string `gorm:"size:100;not null"`
	CreatedAt  time.Time
}

type CommentReport struct {
	ID         uint64 `gorm:"primaryKey"`
	CommentID  uint64 `gorm:"not null;index;uniqueIndex:uk_comment_report"`
	ReporterID uint64 `gorm:"not null;uniqueIndex:uk_comment_report"`
	Reason     string `gorm:"size:100;not null"`
	CreatedAt  time.Time
}
