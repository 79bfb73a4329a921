package model

import "time"

// Community scopes a feed to a cohort. Year/Branch/Division may each be empty,
// in which case they match everyone along that axis. Exactly one row has
// IsGlobal=true and represents the whole campus.
type Community struct {
	ID        uint64 `gorm:"primaryKey"`
	Name      string `gorm:"size:100;not null"`
	Slug      string `gorm:"uniqueIndex;size:64;not null"`
	Year      int    `gorm:"uniqueIndex:uk_cohort"` // 0 = any year
	Branch    string `gorm:"uniqueIndex:uk_cohort;size:16"`
	Division  string `gorm:"uniqueIndex:uk_cohort;size:10"`
	IsGlobal  bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommunityMember is an explicit opt-in membership, distinct from the
// year/branch auto-match rule.
type CommunityMember struct {
	ID          uint64 `gorm:"primaryKey"`
	CommunityID uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	UserID      uint64 `gorm:"not null;index;uniqueIndex:uk_community_user"`
	CreatedAt   time.Time
}
