package mysql

import (
	"context"
	"errors"
	"time"

	"campusanon/internal/model"

	"gorm.io/gorm"
)

type PostLikeRepository struct {
	DB *gorm.DB
}

// Toggle flips the liked state for (user, post) and returns the new state.
// The unique index is the concurrency arbiter: a racing duplicate create is
// resolved as "already liked" instead of an error.
func (r *PostLikeRepository) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	liked := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).
			Delete(&model.PostLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil // was liked, now unliked
		}
		err := tx.Create(&model.PostLike{UserID: userID, PostID: postID}).Error
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			liked = true
			return nil
		}
		if err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

func (r *PostLikeRepository) Count(ctx context.Context, postID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.PostLike{}).
		Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

type likeCountRow struct {
	TargetID uint64
	N        int64
}

// CountByPost returns like totals for a batch of posts.
func (r *PostLikeRepository) CountByPost(postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	var rows []likeCountRow
	err := r.DB.Model(&model.PostLike{}).
		Select("post_id AS target_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TargetID] = row.N
	}
	return counts, nil
}

// LikedSet returns which of the given posts the viewer has liked.
func (r *PostLikeRepository) LikedSet(userID uint64, postIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(postIDs))
	if len(postIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := r.DB.Model(&model.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CountSince counts likes on a community's posts in a scoring window.
func (r *PostLikeRepository) CountSince(communityID uint64, from time.Time, until *time.Time) (int64, error) {
	var n int64
	q := r.DB.Model(&model.PostLike{}).
		Joins("JOIN posts ON posts.id = post_likes.post_id").
		Where("posts.community_id = ? AND post_likes.created_at >= ?", communityID, from)
	if until != nil {
		q = q.Where("post_likes.created_at < ?", *until)
	}
	err := q.Count(&n).Error
	return n, err
}

type CommentLikeRepository struct {
	DB *gorm.DB
}

func (r *CommentLikeRepository) Toggle(ctx context.Context, userID, commentID uint64) (bool, error) {
	liked := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND comment_id = ?", userID, commentID).
			Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		err := tx.Create(&model.CommentLike{UserID: userID, CommentID: commentID}).Error
		if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
			liked = true
			return nil
		}
		if err != nil {
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

func (r *CommentLikeRepository) Count(ctx context.Context, commentID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).Count(&n).Error
	return n, err
}

func (r *CommentLikeRepository) CountByComment(commentIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}
	var rows []likeCountRow
	err := r.DB.Model(&model.CommentLike{}).
		Select("comment_id AS target_id, COUNT(*) AS n").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.TargetID] = row.N
	}
	return counts, nil
}

func (r *CommentLikeRepository) LikedSet(userID uint64, commentIDs []uint64) (map[uint64]bool, error) {
	set := make(map[uint64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return set, nil
	}
	var ids []uint64
	err := r.DB.Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

// CountSince counts comment likes under a community's posts in a window.
func (r *CommentLikeRepository) CountSince(communityID uint64, from time.Time, until *time.Time) (int64, error) {
	var n int64
	q := r.DB.Model(&model.CommentLike{}).
		Joins("JOIN comments ON comments.id = comment_likes.comment_id").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.community_id = ? AND comment_likes.created_at >= ?", communityID, from)
	if until != nil {
		q = q.Where("comment_likes.created_at < ?", *until)
	}
	err := q.Count(&n).Error
	return n, err
}
