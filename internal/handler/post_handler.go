package handler

import (
	"net/http"

	"campusanon/internal/middleware"
	"campusanon/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc        *service.PostService
	likes      *service.LikeService
	moderation *service.ModerationService
}

func NewPostHandler(svc *service.PostService, likes *service.LikeService, moderation *service.ModerationService) *PostHandler {
	return &PostHandler{svc: svc, likes: likes, moderation: moderation}
}

type CreatePostReq struct {
	CommunityID uint64 `json:"community_id" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

type ReportReq struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *PostHandler) Create(c *gin.Context) {
	var req CreatePostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	user := middleware.CurrentUser(c)
	post, err := h.svc.Create(c.Request.Context(), user, req.CommunityID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) Feed(c *gin.Context) {
	id, ok := parseID(c, "community_id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	page, err := h.svc.Feed(c.Request.Context(), user, id, c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *PostHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	post, err := h.svc.Get(user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	if err := h.svc.Delete(user, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *PostHandler) Search(c *gin.Context) {
	user := middleware.CurrentUser(c)
	posts, err := h.svc.Search(c.Request.Context(), user, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) Like(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	res, err := h.likes.TogglePost(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PostHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReportReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reason required"})
		return
	}
	user := middleware.CurrentUser(c)
	res, err := h.moderation.ReportPost(c.Request.Context(), user, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
