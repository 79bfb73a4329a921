package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"campusanon/internal/model"
	"campusanon/internal/pkg"
	"campusanon/internal/repository/mysql"
	"campusanon/internal/repository/redis"

	"gorm.io/gorm"
)

type CommunityService struct {
	repo       *mysql.CommunityRepository
	memberRepo *mysql.CommunityMemberRepository
	cache      *redis.CacheRepository
	presence   *redis.PresenceRepository
}

func NewCommunityService() *CommunityService {
	return &CommunityService{
		repo:       &mysql.CommunityRepository{DB: mysql.DB},
		memberRepo: &mysql.CommunityMemberRepository{DB: mysql.DB},
		cache:      &redis.CacheRepository{},
		presence:   &redis.PresenceRepository{},
	}
}

type CommunityView struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Year     int    `json:"year,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Division string `json:"division,omitempty"`
	IsGlobal bool   `json:"is_global"`
}

func toCommunityViews(list []model.Community) []CommunityView {
	views := make([]CommunityView, 0, len(list))
	for _, c := range list {
		views = append(views, CommunityView{
			ID:       c.ID,
			Name:     c.Name,
			Slug:     c.Slug,
			Year:     c.Year,
			Branch:   c.Branch,
			Division: c.Division,
			IsGlobal: c.IsGlobal,
		})
	}
	return views
}

func (s *CommunityService) FindByID(id uint64) (*model.Community, error) {
	community, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("community not found")
		}
		return nil, err
	}
	return community, nil
}

// ListMine returns the user's visible communities: global plus auto-matches
// plus explicit memberships, admins getting the full set. Read-through cache,
// 15 minutes, keyed per user; staleness inside the window is accepted.
func (s *CommunityService) ListMine(ctx context.Context, user *model.User) ([]CommunityView, error) {
	key := s.cache.CommunityListKey(user.ID)
	var cached []CommunityView
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	var (
		list []model.Community
		err  error
	)
	if user.IsAdmin() {
		// Self-heal the global community before handing admins the full set.
		if _, err := s.repo.EnsureGlobal(); err != nil {
			return nil, err
		}
		list, err = s.repo.ListAll()
	} else {
		list, err = s.repo.ListVisible(user.ID, user.Year, user.Branch)
	}
	if err != nil {
		return nil, err
	}

	views := toCommunityViews(list)
	if err := s.cache.SetJSON(ctx, key, views, redis.CommunityListTTL); err != nil {
		log.Printf("community list cache set: %v", err)
	}
	return views, nil
}

func (s *CommunityService) Search(user *model.User, query string) ([]CommunityView, error) {
	if user.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []CommunityView{}, nil
	}
	list, err := s.repo.SearchByName(query, 20)
	if err != nil {
		return nil, err
	}
	return toCommunityViews(list), nil
}

// Join creates an explicit membership. Idempotent; the user's cached
// community list is dropped so the join shows up immediately.
func (s *CommunityService) Join(ctx context.Context, user *model.User, communityID uint64) error {
	if _, err := s.FindByID(communityID); err != nil {
		return err
	}
	if err := s.memberRepo.Join(&model.CommunityMember{
		CommunityID: communityID,
		UserID:      user.ID,
	}); err != nil {
		return err
	}
	return s.cache.InvalidateCommunityList(ctx, user.ID)
}

func (s *CommunityService) Leave(ctx context.Context, user *model.User, communityID uint64) error {
	if _, err := s.FindByID(communityID); err != nil {
		return err
	}
	if err := s.memberRepo.Leave(communityID, user.ID); err != nil {
		return err
	}
	return s.cache.InvalidateCommunityList(ctx, user.ID)
}

// TouchPresence records a feed read; failures are logged, never surfaced.
func (s *CommunityService) TouchPresence(ctx context.Context, communityID, userID uint64) {
	if err := s.presence.Touch(ctx, communityID, userID); err != nil {
		log.Printf("presence touch: %v", err)
	}
}

func (s *CommunityService) OnlineCount(ctx context.Context, communityID uint64) (int64, error) {
	if _, err := s.FindByID(communityID); err != nil {
		return 0, err
	}
	return s.presence.Count(ctx, communityID)
}
