package handler

import (
	"net/http"
	"strconv"
	"time"

	"campusanon/internal/middleware"
	"campusanon/internal/service"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	svc         *service.CommunityService
	leaderboard *service.LeaderboardService
}

func NewCommunityHandler(svc *service.CommunityService, leaderboard *service.LeaderboardService) *CommunityHandler {
	return &CommunityHandler{svc: svc, leaderboard: leaderboard}
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *CommunityHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.svc.ListMine(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)
	list, err := h.svc.Search(user, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *CommunityHandler) Leaderboard(c *gin.Context) {
	standings := h.leaderboard.Standings(c.Request.Context(), time.Now())
	c.JSON(http.StatusOK, standings)
}

func (h *CommunityHandler) Score(c *gin.Context) {
	id, ok := parseID(c, "community_id")
	if !ok {
		return
	}
	score := h.leaderboard.CommunityScore(c.Request.Context(), id, time.Now())
	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *CommunityHandler) Online(c *gin.Context) {
	id, ok := parseID(c, "community_id")
	if !ok {
		return
	}
	count, err := h.svc.OnlineCount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"online": count})
}

func (h *CommunityHandler) Join(c *gin.Context) {
	id, ok := parseID(c, "community_id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.svc.Join(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "joined"})
}

func (h *CommunityHandler) Leave(c *gin.Context) {
	id, ok := parseID(c, "community_id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.svc.Leave(c.Request.Context(), user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "left"})
}
