package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusanon/internal/model"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"

	"gorm.io/gorm"
)

const CommentPageSize = 20

type CommentService struct {
	repo       *mysql.CommentRepository
	postRepo   *mysql.PostRepository
	likeRepo   *mysql.CommentLikeRepository
	reportRepo *mysql.CommentReportRepository
	limiter    *RateLimiter
}

func NewCommentService(limiter *RateLimiter) *CommentService {
	return &CommentService{
		repo:       &mysql.CommentRepository{DB: mysql.DB},
		postRepo:   &mysql.PostRepository{DB: mysql.DB},
		likeRepo:   &mysql.CommentLikeRepository{DB: mysql.DB},
		reportRepo: &mysql.CommentReportRepository{DB: mysql.DB},
		limiter:    limiter,
	}
}

type CommentView struct {
	ID             uint64    `json:"id"`
	PostID         uint64    `json:"post_id"`
	Alias          string    `json:"alias"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LikesCount     int64     `json:"likes_count"`
	ViewerLiked    bool      `json:"viewer_liked"`
	IsMine         bool      `json:"is_mine"`
	ViewerReported bool      `json:"viewer_reported"`
}

type CommentPage struct {
	Comments   []CommentView `json:"comments"`
	NextCursor *string       `json:"next_cursor"`
}

// Create adds a comment under its own fresh alias. Commenting on a hidden
// post behaves as if the post does not exist.
func (s *CommentService) Create(ctx context.Context, user *model.User, postID uint64, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkg.Validation("content required")
	}
	post, err := s.postRepo.FindByID(postID)
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
	allowed, err := s.limiter.Allow(ctx, user.ID, ActionCreateComment)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("commenting too fast")
	}

	comment := &model.Comment{
		PostID:   post.ID,
		AuthorID: user.ID,
		Alias:    pkg.GenerateAlias(),
		Content:  content,
	}
	if err := s.repo.Create(comment); err != nil {
		return nil, err
	}
	view := CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Alias:     comment.Alias,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		IsMine:    true,
	}
	return &view, nil
}

// List pages comments oldest-first with the ascending composite cursor.
func (s *CommentService) List(viewer *model.User, postID uint64, cursorStr string) (*CommentPage, error) {
	cursor, err := pkg.ParseCursor(cursorStr)
	if err != nil {
		return nil, pkg.Validation("bad cursor")
	}
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	if post.IsHidden && !viewer.IsAdmin() {
		return nil, pkg.NotFound("post not found")
	}

	comments, err := s.repo.ListByPostCursor(post.ID, cursor.CreatedAt, cursor.ID, CommentPageSize)
	if err != nil {
		return nil, err
	}
	views, err := s.annotate(viewer, comments)
	if err != nil {
		return nil, err
	}

	page := &CommentPage{Comments: views}
	if len(comments) == CommentPageSize {
		last := comments[len(comments)-1]
		next := pkg.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		page.NextCursor = &next
	}
	return page, nil
}

func (s *CommentService) annotate(viewer *model.User, comments []model.Comment) ([]CommentView, error) {
	ids := make([]uint64, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	counts, err := s.likeRepo.CountByComment(ids)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeRepo.LikedSet(viewer.ID, ids)
	if err != nil {
		return nil, err
	}
	reported, err := s.reportRepo.ReportedSet(viewer.ID, ids)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			ID:             c.ID,
			PostID:         c.PostID,
			Alias:          c.Alias,
			Content:        c.Content,
			CreatedAt:      c.CreatedAt,
			LikesCount:     counts[c.ID],
			ViewerLiked:    liked[c.ID],
			IsMine:         c.AuthorID == viewer.ID,
			ViewerReported: reported[c.ID],
		})
	}
	return views, nil
}
