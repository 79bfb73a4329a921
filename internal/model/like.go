package model

import "time"

// PostLike presence is the liked state; the unique (user, post) index is the
// arbiter under concurrent toggles.
type PostLike struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_post_like"`
	PostID    uint64 `gorm:"not null;index;uniqueIndex:uk_post_like"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_likes" }

type CommentLike struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_comment_like"`
	CommentID uint64 `gorm:"not null;index;uniqueIndex:uk_comment_like"`
	CreatedAt time.Time
}

func (CommentLike) TableName() string { return "comment_likes" }
