package mysql

import (
	"campusanon/internal/model"

	"gorm.io/gorm"
)

type AuditLogRepository struct {
	DB *gorm.DB
}

// Append writes an audit row. The log is append-only; there is no update or
// delete path.
func (r *AuditLogRepository) Append(entry *model.AdminAuditLog) error {
	return r.DB.Create(entry).Error
}

func (r *AuditLogRepository) List(offset, limit int) ([]model.AdminAuditLog, error) {
	var list []model.AdminAuditLog
	err := r.DB.Order("id desc").Offset(offset).Limit(limit).Find(&list).Error
	return list, err
}
