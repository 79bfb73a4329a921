package model

import "time"

type Post struct {
	ID          uint64 `gorm:"primaryKey;index:idx_comm_time_id,priority:3,sort:desc"`
	CommunityID uint64 `gorm:"not null;index:idx_comm_time_id,priority:1"`
	AuthorID    uint64 `gorm:"not null;index:idx_author_time"`
	Alias       string `gorm:"size:50;not null"` // fresh pseudonym per post
	Content     string `gorm:"type:text;not null"`
	// Hidden state is derived from report count but can be overridden by an
	// admin unhide. UnhideOverride holds until the next report push crosses
	// the threshold again.
	IsHidden       bool      `gorm:"not null;default:false"`
	UnhideOverride bool      `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"index:idx_comm_time_id,priority:2,sort:desc;index:idx_author_time"`
	UpdatedAt      time.Time
}

type Comment struct {
	ID             uint64 `gorm:"primaryKey;index:idx_post_time_id,priority:3"`
	PostID         uint64 `gorm:"not null;index:idx_post_time_id,priority:1"`
	AuthorID       uint64 `gorm:"not null;index"`
	Alias          string `gorm:"size:50;not null"`
	Content        string `gorm:"type:text;not null"`
	IsHidden       bool   `gorm:"not null;default:false"`
	UnhideOverride bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time `gorm:"index:idx_post_time_id,priority:2"`
	UpdatedAt      time.Time
}
