package handler

import (
	"net/http"

	"campusanon/internal/middleware"
	"campusanon/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	svc        *service.CommentService
	likes      *service.LikeService
	moderation *service.ModerationService
}

func NewCommentHandler(svc *service.CommentService, likes *service.LikeService, moderation *service.ModerationService) *CommentHandler {
	return &CommentHandler{svc: svc, likes: likes, moderation: moderation}
}

type CreateCommentReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CreateCommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid params"})
		return
	}
	user := middleware.CurrentUser(c)
	comment, err := h.svc.Create(c.Request.Context(), user, postID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	page, err := h.svc.List(user, postID, c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *CommentHandler) Like(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	res, err := h.likes.ToggleComment(c.Request.Context(), user, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *CommentHandler) Report(c *gin.Context) {
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
	res, err := h.moderation.ReportComment(c.Request.Context(), user, id, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
