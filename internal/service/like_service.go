package service

import (
	"context"
	"errors"
	"log"

	"campusanon/internal/model"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"

	"gorm.io/gorm"
)

// likeStore is the toggle surface both like repositories share; the second id
// is the target (post or comment).
type likeStore interface {
	Toggle(ctx context.Context, userID, targetID uint64) (bool, error)
	Count(ctx context.Context, targetID uint64) (int64, error)
}

type postFinder interface {
	FindByID(id uint64) (*model.Post, error)
}

type commentFinder interface {
	FindByID(id uint64) (*model.Comment, error)
}

type LikeService struct {
	postLikes    likeStore
	commentLikes likeStore
	posts        postFinder
	comments     commentFinder
	outbox       eventSink
	limiter      actionLimiter
}

func NewLikeService(limiter *RateLimiter) *LikeService {
	return &LikeService{
		postLikes:    &mysql.PostLikeRepository{DB: mysql.DB},
		commentLikes: &mysql.CommentLikeRepository{DB: mysql.DB},
		posts:        &mysql.PostRepository{DB: mysql.DB},
		comments:     &mysql.CommentRepository{DB: mysql.DB},
		outbox:       &mysql.OutboxRepository{DB: mysql.DB},
		limiter:      limiter,
	}
}

type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// TogglePost flips the viewer's like on a post and returns the fresh state.
// Toggling twice is an involution.
func (s *LikeService) TogglePost(ctx context.Context, user *model.User, postID uint64) (*LikeResult, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	if post.IsHidden {
		return nil, pkg.NotFound("post not found")
	}
	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	allowed, err := s.limiter.Allow(ctx, user.ID, ActionLike)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("liking too fast")
	}

	liked, err := s.postLikes.Toggle(ctx, user.ID, postID)
	if err != nil {
		return nil, err
	}
	count, err := s.postLikes.Count(ctx, postID)
	if err != nil {
		return nil, err
	}

	// Notify the author through the outbox; a buffering failure must not fail
	// the like.
	if liked && post.AuthorID != user.ID {
		if err := s.outbox.Insert(nil, model.EventPostLiked, postID, map[string]any{
			"author_id": post.AuthorID,
		}); err != nil {
			log.Printf("like outbox insert: %v", err)
		}
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}

func (s *LikeService) ToggleComment(ctx context.Context, user *model.User, commentID uint64) (*LikeResult, error) {
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("comment not found")
		}
		return nil, err
	}
	if comment.IsHidden {
		return nil, pkg.NotFound("comment not found")
	}
	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	allowed, err := s.limiter.Allow(ctx, user.ID, ActionLike)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("liking too fast")
	}

	liked, err := s.commentLikes.Toggle(ctx, user.ID, commentID)
	if err != nil {
		return nil, err
	}
	count, err := s.commentLikes.Count(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Liked: liked, LikesCount: count}, nil
}
