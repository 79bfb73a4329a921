package handler

import (
	"net/http"
	"strconv"

	"campusanon/internal/middleware"
	"campusanon/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	moderation *service.ModerationService
}

func NewAdminHandler(moderation *service.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

type BanReq struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req BanReq
	_ = c.ShouldBindJSON(&req)
	admin := middleware.CurrentUser(c)
	if err := h.moderation.BanUser(admin, id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "banned"})
}

func (h *AdminHandler) UnbanUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req BanReq
	_ = c.ShouldBindJSON(&req)
	admin := middleware.CurrentUser(c)
	if err := h.moderation.UnbanUser(admin, id, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unbanned"})
}

func (h *AdminHandler) UnhidePost(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	admin := middleware.CurrentUser(c)
	if err := h.moderation.UnhidePost(admin, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unhidden"})
}

func (h *AdminHandler) UnhideComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	admin := middleware.CurrentUser(c)
	if err := h.moderation.UnhideComment(admin, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "unhidden"})
}

func (h *AdminHandler) AuditLogs(c *gin.Context) {
	page, size := pageParams(c)
	logs, err := h.moderation.AuditLogs(page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, size := pageParams(c)
	switch c.Param("kind") {
	case "post":
		reports, err := h.moderation.ListPostReports(page, size)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	case "comment":
		reports, err := h.moderation.ListCommentReports(page, size)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reports": reports})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be post or comment"})
	}
}

func (h *AdminHandler) DeleteReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	admin := middleware.CurrentUser(c)
	var err error
	switch c.Param("kind") {
	case "post":
		err = h.moderation.RetractPostReport(admin, id)
	case "comment":
		err = h.moderation.RetractCommentReport(admin, id)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be post or comment"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "report removed"})
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}
