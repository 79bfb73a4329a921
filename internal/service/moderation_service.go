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

// ReportThreshold is the distinct-reporter count at which content auto-hides.
const ReportThreshold = 3

// Narrow consumer-side views of the repositories, so the state machine can be
// exercised against fakes.
type moderationPostStore interface {
	FindByID(id uint64) (*model.Post, error)
	Hide(id uint64) error
	Unhide(id uint64) error
	AdminUnhide(id uint64) error
}

type moderationCommentStore interface {
	FindByID(id uint64) (*model.Comment, error)
	Hide(id uint64) error
	Unhide(id uint64) error
	AdminUnhide(id uint64) error
}

type postReportStore interface {
	Create(report *model.PostReport) (bool, error)
	CountDistinctReporters(postID uint64) (int64, error)
	FindByID(id uint64) (*model.PostReport, error)
	Delete(id uint64) (int64, error)
	List(offset, limit int) ([]model.PostReport, error)
}

type commentReportStore interface {
	Create(report *model.CommentReport) (bool, error)
	CountDistinctReporters(commentID uint64) (int64, error)
	FindByID(id uint64) (*model.CommentReport, error)
	Delete(id uint64) (int64, error)
	List(offset, limit int) ([]model.CommentReport, error)
}

type moderationUserStore interface {
	FindByID(id uint64) (*model.User, error)
	SetBanned(id uint64, banned bool) (int64, error)
}

type auditStore interface {
	Append(entry *model.AdminAuditLog) error
	List(offset, limit int) ([]model.AdminAuditLog, error)
}

type eventSink interface {
	Insert(tx *gorm.DB, eventType string, targetID uint64, extra map[string]any) error
}

type actionLimiter interface {
	Allow(ctx context.Context, userID uint64, action string) (bool, error)
}

type ModerationService struct {
	posts          moderationPostStore
	comments       moderationCommentStore
	postReports    postReportStore
	commentReports commentReportStore
	users          moderationUserStore
	audit          auditStore
	outbox         eventSink
	limiter        actionLimiter
}

func NewModerationService(limiter *RateLimiter) *ModerationService {
	return &ModerationService{
		posts:          &mysql.PostRepository{DB: mysql.DB},
		comments:       &mysql.CommentRepository{DB: mysql.DB},
		postReports:    &mysql.PostReportRepository{DB: mysql.DB},
		commentReports: &mysql.CommentReportRepository{DB: mysql.DB},
		users:          &mysql.UserRepository{DB: mysql.DB},
		audit:          &mysql.AuditLogRepository{DB: mysql.DB},
		outbox:         &mysql.OutboxRepository{DB: mysql.DB},
		limiter:        limiter,
	}
}

type ReportResult struct {
	Created bool `json:"created"`
	Hidden  bool `json:"hidden"`
}

func (s *ModerationService) emit(eventType string, targetID uint64) {
	if err := s.outbox.Insert(nil, eventType, targetID, nil); err != nil {
		log.Printf("moderation outbox insert: %v", err)
	}
}

// ReportPost files a report. Re-reporting the same post is a soft success.
// Crossing the threshold hides the post and supersedes any admin unhide
// override.
func (s *ModerationService) ReportPost(ctx context.Context, reporter *model.User, postID uint64, reason string) (*ReportResult, error) {
	if reason == "" {
		return nil, pkg.Validation("reason required")
	}
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("post not found")
		}
		return nil, err
	}
	if reporter.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	allowed, err := s.limiter.Allow(ctx, reporter.ID, ActionReport)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("reporting too fast")
	}

	created, err := s.postReports.Create(&model.PostReport{
		PostID:     postID,
		ReporterID: reporter.ID,
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &ReportResult{Created: false, Hidden: post.IsHidden}, nil
	}

	count, err := s.postReports.CountDistinctReporters(postID)
	if err != nil {
		return nil, err
	}
	hidden := post.IsHidden
	if count >= ReportThreshold && !hidden {
		if err := s.posts.Hide(postID); err != nil {
			return nil, err
		}
		hidden = true
		s.emit(model.EventPostHidden, postID)
	}
	return &ReportResult{Created: true, Hidden: hidden}, nil
}

func (s *ModerationService) ReportComment(ctx context.Context, reporter *model.User, commentID uint64, reason string) (*ReportResult, error) {
	if reason == "" {
		return nil, pkg.Validation("reason required")
	}
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkg.NotFound("comment not found")
		}
		return nil, err
	}
	if reporter.IsBanned {
		return nil, pkg.Forbidden("user is banned")
	}
	allowed, err := s.limiter.Allow(ctx, reporter.ID, ActionReport)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, pkg.RateLimited("reporting too fast")
	}

	created, err := s.commentReports.Create(&model.CommentReport{
		CommentID:  commentID,
		ReporterID: reporter.ID,
		Reason:     reason,
	})
	if err != nil {
		return nil, err
	}
	if !created {
		return &ReportResult{Created: false, Hidden: comment.IsHidden}, nil
	}

	count, err := s.commentReports.CountDistinctReporters(commentID)
	if err != nil {
		return nil, err
	}
	hidden := comment.IsHidden
	if count >= ReportThreshold && !hidden {
		if err := s.comments.Hide(commentID); err != nil {
			return nil, err
		}
		hidden = true
		s.emit(model.EventCommentHidden, commentID)
	}
	return &ReportResult{Created: true, Hidden: hidden}, nil
}

// RetractPostReport deletes a report row and re-derives the hidden state:
// a hidden post whose distinct-reporter count dropped below the threshold
// becomes visible again. The admin unhide override is never touched here.
func (s *ModerationService) RetractPostReport(admin *model.User, reportID uint64) error {
	report, err := s.postReports.FindByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("report not found")
		}
		return err
	}
	affected, err := s.postReports.Delete(reportID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("report not found")
	}
	if err := s.recomputePostHidden(report.PostID); err != nil {
		return err
	}
	return s.audit.Append(&model.AdminAuditLog{
		AdminID:    admin.ID,
		Action:     model.AuditActionDeleteReport,
		TargetType: "report",
		TargetID:   reportID,
	})
}

func (s *ModerationService) RetractCommentReport(admin *model.User, reportID uint64) error {
	report, err := s.commentReports.FindByID(reportID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("report not found")
		}
		return err
	}
	affected, err := s.commentReports.Delete(reportID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return pkg.NotFound("report not found")
	}
	if err := s.recomputeCommentHidden(report.CommentID); err != nil {
		return err
	}
	return s.audit.Append(&model.AdminAuditLog{
		AdminID:    admin.ID,
		Action:     model.AuditActionDeleteReport,
		TargetType: "report",
		TargetID:   reportID,
	})
}

func (s *ModerationService) recomputePostHidden(postID uint64) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // post deleted meanwhile, nothing to recompute
		}
		return err
	}
	if !post.IsHidden {
		return nil
	}
	count, err := s.postReports.CountDistinctReporters(postID)
	if err != nil {
		return err
	}
	if count < ReportThreshold {
		if err := s.posts.Unhide(postID); err != nil {
			return err
		}
		s.emit(model.EventPostUnhidden, postID)
	}
	return nil
}

func (s *ModerationService) recomputeCommentHidden(commentID uint64) error {
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if !comment.IsHidden {
		return nil
	}
	count, err := s.commentReports.CountDistinctReporters(commentID)
	if err != nil {
		return err
	}
	if count < ReportThreshold {
		if err := s.comments.Unhide(commentID); err != nil {
			return err
		}
		s.emit(model.EventCommentUnhidden, commentID)
	}
	return nil
}

// UnhidePost is the authoritative admin transition: visible regardless of
// report count, protected from derived re-evaluation until reports push the
// count over the threshold again.
func (s *ModerationService) UnhidePost(admin *model.User, postID uint64) error {
	if _, err := s.posts.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("post not found")
		}
		return err
	}
	if err := s.posts.AdminUnhide(postID); err != nil {
		return err
	}
	s.emit(model.EventPostUnhidden, postID)
	return s.audit.Append(&model.AdminAuditLog{
		AdminID:    admin.ID,
		Action:     model.AuditActionUnhidePost,
		TargetType: "post",
		TargetID:   postID,
	})
}

func (s *ModerationService) UnhideComment(admin *model.User, commentID uint64) error {
	if _, err := s.comments.FindByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("comment not found")
		}
		return err
	}
	if err := s.comments.AdminUnhide(commentID); err != nil {
		return err
	}
	s.emit(model.EventCommentUnhidden, commentID)
	return s.audit.Append(&model.AdminAuditLog{
		AdminID:    admin.ID,
		Action:     model.AuditActionUnhideComment,
		TargetType: "comment",
		TargetID:   commentID,
	})
}

// BanUser flips the banned flag. Banned users keep read access; every write
// endpoint rejects them.
func (s *ModerationService) BanUser(admin *model.User, targetID uint64, reason string) error {
	return s.setBanned(admin, targetID, true, reason)
}

func (s *ModerationService) UnbanUser(admin *model.User, targetID uint64, reason string) error {
	return s.setBanned(admin, targetID, false, reason)
}

func (s *ModerationService) setBanned(admin *model.User, targetID uint64, banned bool, reason string) error {
	if _, err := s.users.FindByID(targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkg.NotFound("user not found")
		}
		return err
	}
	if _, err := s.users.SetBanned(targetID, banned); err != nil {
		return err
	}
	action := model.AuditActionBanUser
	event := model.EventUserBanned
	if !banned {
		action = model.AuditActionUnbanUser
		event = model.EventUserUnbanned
	}
	s.emit(event, targetID)
	return s.audit.Append(&model.AdminAuditLog{
		AdminID:    admin.ID,
		Action:     action,
		TargetType: "user",
		TargetID:   targetID,
		Reason:     reason,
	})
}

func (s *ModerationService) AuditLogs(page, size int) ([]model.AdminAuditLog, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.audit.List((page-1)*size, size)
}

func (s *ModerationService) ListPostReports(page, size int) ([]model.PostReport, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.postReports.List((page-1)*size, size)
}

func (s *ModerationService) ListCommentReports(page, size int) ([]model.CommentReport, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 50
	}
	return s.commentReports.List((page-1)*size, size)
}
