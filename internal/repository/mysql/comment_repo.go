package mysql

import (
	"time"

	"campusanon/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.DB.Create(comment).Error
}

func (r *CommentRepository) FindByID(id uint64) (*model.Comment, error) {
	var comment model.Comment
	err := r.DB.First(&comment, id).Error
	return &comment, err
}

// ListByPostCursor pages non-hidden comments oldest-first with an exclusive
// composite (created_at, id) cursor, the ascending mirror of the post feed.
func (r *CommentRepository) ListByPostCursor(postID uint64, lastCreatedAt time.Time, lastID uint64, limit int) ([]model.Comment, error) {
	var list []model.Comment
	q := r.DB.Where("post_id = ? AND is_hidden = ?", postID, false)
	if lastID > 0 {
		q = q.Where("(created_at > ? OR (created_at = ? AND id > ?))",
			lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at ASC, id ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *CommentRepository) Hide(id uint64) error {
	return r.DB.Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"is_hidden": true, "unhide_override": false}).Error
}

func (r *CommentRepository) Unhide(id uint64) error {
	return r.DB.Model(&model.Comment{}).Where("id = ?", id).
		Update("is_hidden", false).Error
}

func (r *CommentRepository) AdminUnhide(id uint64) error {
	return r.DB.Model(&model.Comment{}).Where("id = ?", id).
		Updates(map[string]any{"is_hidden": false, "unhide_override": true}).Error
}

// CountSince counts comments on a community's posts in a scoring window.
func (r *CommentRepository) CountSince(communityID uint64, from time.Time, until *time.Time) (int64, error) {
	var n int64
	q := r.DB.Model(&model.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.community_id = ? AND comments.created_at >= ?", communityID, from)
	if until != nil {
		q = q.Where("comments.created_at < ?", *until)
	}
	err := q.Count(&n).Error
	return n, err
}
