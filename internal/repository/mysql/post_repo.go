package mysql

import (
	"time"

	"campusanon/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.First(&post, id).Error
	return &post, err
}

// ListFeedCursor pages non-hidden posts in reverse chronological order.
// A zero cursor means first page; otherwise the composite (created_at, id)
// strict inequality keeps pages duplicate- and skip-free even when rows share
// a timestamp. Served by idx_comm_time_id.
func (r *PostRepository) ListFeedCursor(communityID uint64, lastCreatedAt time.Time, lastID uint64, limit int) ([]model.Post, error) {
	var list []model.Post
	q := r.DB.Where("community_id = ? AND is_hidden = ?", communityID, false)
	if lastID > 0 {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))",
			lastCreatedAt, lastCreatedAt, lastID)
	}
	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}

// DeleteCascade hard-deletes a post together with its comments, likes and
// reports in one transaction.
func (r *PostRepository) DeleteCascade(postID uint64) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint64
		if err := tx.Model(&model.Comment{}).Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&model.CommentLike{}).Error; err != nil {
				return err
			}
			if err := tx.Where("comment_id IN ?", commentIDs).
				Delete(&model.CommentReport{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&model.PostReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Post{}, postID).Error
	})
}

// Hide sets the derived hidden flag and clears any admin unhide override:
// a report push that crosses the threshold supersedes the override.
func (r *PostRepository) Hide(id uint64) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]any{"is_hidden": true, "unhide_override": false}).Error
}

// Unhide is the derived transition (report count dropped below threshold).
// It never touches the override flag.
func (r *PostRepository) Unhide(id uint64) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).
		Update("is_hidden", false).Error
}

// AdminUnhide is the authoritative admin transition.
func (r *PostRepository) AdminUnhide(id uint64) error {
	return r.DB.Model(&model.Post{}).Where("id = ?", id).
		Updates(map[string]any{"is_hidden": false, "unhide_override": true}).Error
}

// SearchVisible matches post content inside the given communities, skipping
// hidden rows.
func (r *PostRepository) SearchVisible(query string, communityIDs []uint64, limit int) ([]model.Post, error) {
	if len(communityIDs) == 0 {
		return nil, nil
	}
	var list []model.Post
	err := r.DB.
		Where("community_id IN ? AND is_hidden = ? AND content LIKE ?",
			communityIDs, false, "%"+query+"%").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

// CountSince counts posts created in a community at or after the boundary;
// the optional until bound makes it reusable for previous-day scoring.
func (r *PostRepository) CountSince(communityID uint64, from time.Time, until *time.Time) (int64, error) {
	var n int64
	q := r.DB.Model(&model.Post{}).
		Where("community_id = ? AND created_at >= ?", communityID, from)
	if until != nil {
		q = q.Where("created_at < ?", *until)
	}
	err := q.Count(&n).Error
	return n, err
}
