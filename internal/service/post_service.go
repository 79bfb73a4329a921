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

const FeedPageSize = 20

// Consumer-side views of the stores, so page assembly is testable against
// fakes.
type feedStore interface {
	Create(post *model.Post) error
	FindByID(id uint64) (*model.Post, error)
	ListFeedCursor(communityID uint64, lastCreatedAt time.Time, lastID uint64, limit int) ([]model.Post, error)
	DeleteCascade(postID uint64) error
	SearchVisible(query string, communityIDs []uint64, limit int) ([]model.Post, error)
}

type postAnnotationStore interface {
	CountByPost(postIDs []uint64) (map[uint64]int64, error)
	LikedSet(userID uint64, postIDs []uint64) (map[uint64]bool, error)
}

type postReportedStore interface {
	ReportedSet(userID uint64, postIDs []uint64) (map[uint64]bool, error)
}

type communityAccess interface {
	FindByID(id uint64) (*model.Community, error)
	CanAccess(user *model.User, community *model.Community) (bool, error)
	ListMine(ctx context.Context, user *model.User) ([]CommunityView, error)
	TouchPresence(ctx context.Context, communityID, userID uint64)
}

type PostService struct {
	repo         feedStore
	likeRepo     postAnnotationStore
	reportRepo   postReportedStore
	communitySvc communityAccess
	limiter      actionLimiter
}

func NewPostService(communitySvc *CommunityService, limiter *RateLimiter) *PostService {
	return &PostService{
		repo:         &mysql.PostRepository{DB: mysql.DB},
		likeRepo:     &mysql.PostLikeRepository{DB: mysql.DB},
		reportRepo:   &mysql.PostReportRepository{DB: mysql.DB},
		communitySvc: communitySvc,
		limiter:      limiter,
	}
}

type PostView struct {
	ID             uint64    `json:"id"`
	CommunityID    uint64    `json:"community_id"`
	Alias          string    `json:"alias"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
	LikesCount     int64     `json:"likes_count"`
	ViewerLiked    bool      `json:"viewer_liked"`
	IsMine         bool      `json:"is_mine"`
	ViewerReported bool      `json:"viewer_reported"`
}

type FeedPage struct {
	Posts      []PostView `json:"posts"`
	NextCursor *string    `json:"next_cursor"`
}

// Create persists a post under a fresh pseudonymous alias. Ban check runs
// before the limiter so a refused banned user never consumes a slot.
func (s *PostService) Create(ctx context.Context, user *model.User, communityID uint64, content string) (*PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkg.Validation("content required")
	}
	community, err := s.communitySvc.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	ok, err := s.communitySvc.CanAccess(user, community)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.Forbidden("no access to this community")
	}
	allowed, err := s.limiter.Allow(ctx, user.ID, ActionCreatePost)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("posting too fast")
	}

	post := &model.Post{
		CommunityID: community.ID,
		AuthorID:    user.ID,
		Alias:       pkg.GenerateAlias(),
		Content:     content,
	}
	if err := s.repo.Create(post); err != nil {
		return nil, err
	}
	view := PostView{
		ID:          post.ID,
		CommunityID: post.CommunityID,
		Alias:       post.Alias,
		Content:     post.Content,
		CreatedAt:   post.CreatedAt,
		IsMine:      true,
	}
	return &view, nil
}

// Feed returns one reverse-chronological page of non-hidden posts with the
// viewer's annotations. NextCursor is nil on a short page (end of feed).
func (s *PostService) Feed(ctx context.Context, viewer *model.User, communityID uint64, cursorStr string) (*FeedPage, error) {
	cursor, err := pkg.ParseCursor(cursorStr)
	if err != nil {
		return nil, pkg.Validation("bad cursor")
	}
	community, err := s.communitySvc.FindByID(communityID)
	if err != nil {
		return nil, err
	}
	ok, err := s.communitySvc.CanAccess(viewer, community)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.Forbidden("no access to this community")
	}

	posts, err := s.repo.ListFeedCursor(community.ID, cursor.CreatedAt, cursor.ID, FeedPageSize)
	if err != nil {
		return nil, err
	}
	views, err := s.annotate(viewer, posts)
	if err != nil {
		return nil, err
	}

	page := &FeedPage{Posts: views}
	if len(posts) == FeedPageSize {
		last := posts[len(posts)-1]
		next := pkg.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
		page.NextCursor = &next
	}

	s.communitySvc.TouchPresence(ctx, community.ID, viewer.ID)
	return page, nil
}

// Get returns one post with annotations. Hidden posts are invisible to
// everyone but admins.
func (s *PostService) Get(viewer *model.User, postID uint64) (*PostView, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	if post.IsHidden && !viewer.IsAdmin() {
		return nil, pkg.NotFound("post not found")
	}
	community, err := s.communitySvc.FindByID(post.CommunityID)
	if err != nil {
		return nil, err
	}
	ok, err := s.communitySvc.CanAccess(viewer, community)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, pkg.Forbidden("no access to this community")
	}
	views, err := s.annotate(viewer, []model.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete hard-deletes the author's own post and everything hanging off it.
func (s *PostService) Delete(user *model.User, postID uint64) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("post not found")
		}
		return err
	}
	if post.AuthorID != user.ID {
		return pkg.Forbidden("not your post")
	}
	return s.repo.DeleteCascade(postID)
}

// Search matches content across the viewer's accessible communities.
func (s *PostService) Search(ctx context.Context, viewer *model.User, query string) ([]PostView, error) {
	if viewer.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []PostView{}, nil
	}
	communities, err := s.communitySvc.ListMine(ctx, viewer)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(communities))
	for _, c := range communities {
		ids = append(ids, c.ID)
	}
	posts, err := s.repo.SearchVisible(query, ids, 20)
	if err != nil {
		return nil, err
	}
	return s.annotate(viewer, posts)
}

func (s *PostService) annotate(viewer *model.User, posts []model.Post) ([]PostView, error) {
	ids := make([]uint64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := s.likeRepo.CountByPost(ids)
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

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{
			ID:             p.ID,
			CommunityID:    p.CommunityID,
			Alias:          p.Alias,
			Content:        p.Content,
			CreatedAt:      p.CreatedAt,
			LikesCount:     counts[p.ID],
			ViewerLiked:    liked[p.ID],
			IsMine:         p.AuthorID == viewer.ID,
			ViewerReported: reported[p.ID],
		})
	}
	return views, nil
}
