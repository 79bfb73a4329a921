package service

import (
	"context"
	"log"
	"sort"
	"time"

	"campusanon/internal/model"
	"campusanon/internal/repository/mysql"
	"campusanon/internal/repository/redis"
)

// Daily score formula.
const (
	scorePostWeight        = 5
	scorePostLikeWeight    = 2
	scoreCommentWeight     = 8
	scoreCommentLikeWeight = 1
)

type LeaderboardService struct {
	communities  *mysql.CommunityRepository
	posts        *mysql.PostRepository
	comments     *mysql.CommentRepository
	postLikes    *mysql.PostLikeRepository
	commentLikes *mysql.CommentLikeRepository
	cache        *redis.CacheRepository
}

func NewLeaderboardService() *LeaderboardService {
	return &LeaderboardService{
		communities:  &mysql.CommunityRepository{DB: mysql.DB},
		posts:        &mysql.PostRepository{DB: mysql.DB},
		comments:     &mysql.CommentRepository{DB: mysql.DB},
		postLikes:    &mysql.PostLikeRepository{DB: mysql.DB},
		commentLikes: &mysql.CommentLikeRepository{DB: mysql.DB},
		cache:        &redis.CacheRepository{},
	}
}

type DailyStats struct {
	Posts    int64 `json:"posts"`
	Likes    int64 `json:"likes"`
	Comments int64 `json:"comments"`
}

type LeaderboardEntry struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	Branch   string     `json:"branch"`
	Division string     `json:"division"`
	Score    int64      `json:"score"`
	Rank     int        `json:"rank"`
	Stats    DailyStats `json:"stats"`
}

type YesterdayWinner struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
	Title string `json:"title"`
}

type YearStandings struct {
	Live            []LeaderboardEntry `json:"live_leaderboard"`
	YesterdayWinner *YesterdayWinner   `json:"yesterday_winner"`
}

func score(posts, postLikes, comments, commentLikes int64) int64 {
	return posts*scorePostWeight +
		postLikes*scorePostLikeWeight +
		comments*scoreCommentWeight +
		commentLikes*scoreCommentLikeWeight
}

// competitionDayStart returns the most recent 6 AM boundary: before 6 AM the
// competition day is still yesterday's.
func competitionDayStart(now time.Time) time.Time {
	sixAM := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if now.Before(sixAM) {
		return sixAM.AddDate(0, 0, -1)
	}
	return sixAM
}

func (s *LeaderboardService) communityScore(c *model.Community, from time.Time, until *time.Time) (int64, DailyStats, error) {
	posts, err := s.posts.CountSince(c.ID, from, until)
	if err != nil {
		return 0, DailyStats{}, err
	}
	likes, err := s.postLikes.CountSince(c.ID, from, until)
	if err != nil {
		return 0, DailyStats{}, err
	}
	comments, err := s.comments.CountSince(c.ID, from, until)
	if err != nil {
		return 0, DailyStats{}, err
	}
	commentLikes, err := s.commentLikes.CountSince(c.ID, from, until)
	if err != nil {
		return 0, DailyStats{}, err
	}
	stats := DailyStats{Posts: posts, Likes: likes, Comments: comments}
	return score(posts, likes, comments, commentLikes), stats, nil
}

// Standings computes the daily per-year leaderboard plus yesterday's winner,
// cached for five minutes per competition day. Storage errors degrade to an
// empty payload since this is a non-critical read path.
func (s *LeaderboardService) Standings(ctx context.Context, now time.Time) map[int]YearStandings {
	dayStart := competitionDayStart(now)
	key := s.cache.LeaderboardKey(dayStart.Format("20060102"))

	var cached map[int]YearStandings
	if hit, err := s.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached
	}

	result := make(map[int]YearStandings, 4)
	prevStart := dayStart.AddDate(0, 0, -1)

	for year := 1; year <= 4; year++ {
		communities, err := s.communities.ListByYear(year)
		if err != nil {
			log.Printf("leaderboard year %d: %v", year, err)
			result[year] = YearStandings{Live: []LeaderboardEntry{}}
			continue
		}

		live := make([]LeaderboardEntry, 0, len(communities))
		var winner *YesterdayWinner
		var bestPastScore int64 = -1

		for i := range communities {
			c := &communities[i]
			sc, stats, err := s.communityScore(c, dayStart, nil)
			if err != nil {
				log.Printf("leaderboard score community %d: %v", c.ID, err)
				continue
			}
			live = append(live, LeaderboardEntry{
				ID:       c.ID,
				Name:     c.Name,
				Branch:   c.Branch,
				Division: c.Division,
				Score:    sc,
				Stats:    stats,
			})

			pastScore, _, err := s.communityScore(c, prevStart, &dayStart)
			if err != nil {
				continue
			}
			if pastScore > bestPastScore && pastScore > 0 {
				bestPastScore = pastScore
				winner = &YesterdayWinner{
					ID:    c.ID,
					Name:  c.Name,
					Score: pastScore,
					Title: "Yesterday's Champion",
				}
			}
		}

		sort.SliceStable(live, func(i, j int) bool {
			return live[i].Score > live[j].Score
		})
		for i := range live {
			live[i].Rank = i + 1
		}

		result[year] = YearStandings{Live: live, YesterdayWinner: winner}
	}

	if err := s.cache.SetJSON(ctx, key, result, redis.LeaderboardTTL); err != nil {
		log.Printf("leaderboard cache set: %v", err)
	}
	return result
}

// CommunityScore returns one community's daily score; errors degrade to zero.
func (s *LeaderboardService) CommunityScore(ctx context.Context, communityID uint64, now time.Time) int64 {
	c, err := s.communities.FindByID(communityID)
	if err != nil {
		return 0
	}
	sc, _, err := s.communityScore(c, competitionDayStart(now), nil)
	if err != nil {
		log.Printf("community score %d: %v", communityID, err)
		return 0
	}
	return sc
}
