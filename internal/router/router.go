package router

import (
	"net/http"

	"campusanon/internal/config"
	"campusanon/internal/handler"
	"campusanon/internal/middleware"
	"campusanon/internal/pkg"
	"campusanon/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg *config.Config, jwt *pkg.JWTManager) *gin.Engine {
	r := gin.Default()

	limiter := service.NewRateLimiter()

	smtpCfg := pkg.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}

	authSvc := service.NewAuthService(jwt, smtpCfg, cfg.EmailDomain)
	communitySvc := service.NewCommunityService()
	leaderboardSvc := service.NewLeaderboardService()
	postSvc := service.NewPostService(communitySvc, limiter)
	commentSvc := service.NewCommentService(limiter)
	likeSvc := service.NewLikeService(limiter)
	moderationSvc := service.NewModerationService(limiter)

	auth := handler.NewAuthHandler(authSvc)
	community := handler.NewCommunityHandler(communitySvc, leaderboardSvc)
	post := handler.NewPostHandler(postSvc, likeSvc, moderationSvc)
	comment := handler.NewCommentHandler(commentSvc, likeSvc, moderationSvc)
	admin := handler.NewAdminHandler(moderationSvc)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// auth endpoints
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/otp/send", auth.SendOTP)
		authGroup.POST("/otp/verify", auth.VerifyOTP)
		authGroup.POST("/refresh", auth.Refresh)
	}

	authed := r.Group("/api")
	authed.Use(middleware.AuthMiddleware(jwt))
	{
		authed.GET("/me", auth.Me)

		// community endpoints
		communityGroup := authed.Group("/communities")
		{
			communityGroup.GET("", community.List)
			communityGroup.GET("/search", community.Search)
			communityGroup.GET("/leaderboard", community.Leaderboard)
			communityGroup.GET("/:community_id/score", community.Score)
			communityGroup.GET("/:community_id/online", community.Online)
			communityGroup.POST("/:community_id/join", community.Join)
			communityGroup.POST("/:community_id/leave", community.Leave)
			communityGroup.GET("/:community_id/posts", post.Feed)
		}

		// post endpoints
		postGroup := authed.Group("/posts")
		{
			postGroup.POST("", post.Create)
			postGroup.GET("/search", post.Search)
			postGroup.GET("/:id", post.Get)
			postGroup.DELETE("/:id", post.Delete)
			postGroup.POST("/:id/like", post.Like)
			postGroup.POST("/:id/report", post.Report)
			postGroup.POST("/:id/comments", comment.Create)
			postGroup.GET("/:id/comments", comment.List)
		}

		// comment endpoints
		commentGroup := authed.Group("/comments")
		{
			commentGroup.POST("/:id/like", comment.Like)
			commentGroup.POST("/:id/report", comment.Report)
		}

		// moderation endpoints, staff only
		adminGroup := authed.Group("/admin")
		adminGroup.Use(middleware.AdminRequired())
		{
			adminGroup.POST("/users/:id/ban", admin.BanUser)
			adminGroup.POST("/users/:id/unban", admin.UnbanUser)
			adminGroup.POST("/posts/:id/unhide", admin.UnhidePost)
			adminGroup.POST("/comments/:id/unhide", admin.UnhideComment)
			adminGroup.GET("/reports/:kind", admin.ListReports)
			adminGroup.DELETE("/reports/:kind/:id", admin.DeleteReport)
			adminGroup.GET("/audit-logs", admin.AuditLogs)
		}
	}

	return r
}
