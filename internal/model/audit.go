package model

import "time"

const (
	AuditActionBanUser       = "ban_user"
	AuditActionUnbanUser     = "unban_user"
	AuditActionUnhidePost    = "unhide_post"
	AuditActionUnhideComment = "unhide_comment"
	AuditActionDeleteReport  = "delete_report"
)

// AdminAuditLog is append-only; rows are never updated after creation.
type AdminAuditLog struct {
	ID         uint64 `gorm:"primaryKey"`
	AdminID    uint64 `gorm:"not null;index"`
	Action     string `gorm:"size:32;not null"`
	TargetType string `gorm:"size:16;not null"` // user / post / comment / report
	TargetID   uint64 `gorm:"not null"`
	Reason     string `gorm:"size:200"`
	CreatedAt  time.Time
}
