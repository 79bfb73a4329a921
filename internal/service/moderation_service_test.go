package service

import (
	"context"
	"fmt"
	"testing"

	"campusanon/internal/model"
	"campusanon/internal/pkg"

	"gorm.io/gorm"
)

type fakePostStore struct {
	posts       map[uint64]*model.Post
	hides       int
	unhides     int
	adminUnhide int
}

func (f *fakePostStore) FindByID(id uint64) (*model.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostStore) Hide(id uint64) error {
	f.hides++
	f.posts[id].IsHidden = true
	f.posts[id].UnhideOverride = false
	return nil
}

func (f *fakePostStore) Unhide(id uint64) error {
	f.unhides++
	f.posts[id].IsHidden = false
	return nil
}

func (f *fakePostStore) AdminUnhide(id uint64) error {
	f.adminUnhide++
	f.posts[id].IsHidden = false
	f.posts[id].UnhideOverride = true
	return nil
}

type fakePostReports struct {
	nextID uint64
	rows   map[uint64]*model.PostReport
}

func newFakePostReports() *fakePostReports {
	return &fakePostReports{nextID: 1, rows: map[uint64]*model.PostReport{}}
}

func (f *fakePostReports) Create(r *model.PostReport) (bool, error) {
	for _, row := range f.rows {
		if row.PostID == r.PostID && row.ReporterID == r.ReporterID {
			return false, nil
		}
	}
	r.ID = f.nextID
	f.nextID++
	cp := *r
	f.rows[r.ID] = &cp
	return true, nil
}

func (f *fakePostReports) CountDistinctReporters(postID uint64) (int64, error) {
	var n int64
	for _, row := range f.rows {
		if row.PostID == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakePostReports) FindByID(id uint64) (*model.PostReport, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakePostReports) Delete(id uint64) (int64, error) {
	if _, ok := f.rows[id]; !ok {
		return 0, nil
	}
	delete(f.rows, id)
	return 1, nil
}

func (f *fakePostReports) List(offset, limit int) ([]model.PostReport, error) {
	return nil, nil
}

type fakeUserStore struct {
	users map[uint64]*model.User
}

func (f *fakeUserStore) FindByID(id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) SetBanned(id uint64, banned bool) (int64, error) {
	u, ok := f.users[id]
	if !ok {
		return 0, nil
	}
	u.IsBanned = banned
	return 1, nil
}

type fakeAudit struct {
	entries []model.AdminAuditLog
}

func (f *fakeAudit) Append(e *model.AdminAuditLog) error {
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeAudit) List(offset, limit int) ([]model.AdminAuditLog, error) {
	return f.entries, nil
}

type fakeOutbox struct {
	events []string
}

func (f *fakeOutbox) Insert(tx *gorm.DB, eventType string, targetID uint64, extra map[string]any) error {
	f.events = append(f.events, fmt.Sprintf("%s:%d", eventType, targetID))
	return nil
}

type stubLimiter struct {
	allow bool
}

func (l stubLimiter) Allow(ctx context.Context, userID uint64, action string) (bool, error) {
	return l.allow, nil
}

func newModerationFixture() (*ModerationService, *fakePostStore, *fakePostReports, *fakeAudit, *fakeOutbox) {
	posts := &fakePostStore{posts: map[uint64]*model.Post{
		1: {ID: 1, CommunityID: 1, AuthorID: 9, Content: "hello"},
	}}
	reports := newFakePostReports()
	audit := &fakeAudit{}
	outbox := &fakeOutbox{}
	svc := &ModerationService{
		posts:       posts,
		postReports: reports,
		users:       &fakeUserStore{users: map[uint64]*model.User{9: {ID: 9}}},
		audit:       audit,
		outbox:      outbox,
		limiter:     stubLimiter{allow: true},
	}
	return svc, posts, reports, audit, outbox
}

func reporter(id uint64) *model.User {
	return &model.User{ID: id, Year: 2, Branch: "COMP"}
}

func TestReportPostHidesAtThreshold(t *testing.T) {
	svc, posts, _, _, outbox := newModerationFixture()
	ctx := context.Background()

	for i := uint64(1); i < ReportThreshold; i++ {
		res, err := svc.ReportPost(ctx, reporter(i), 1, "spam")
		if err != nil {
			t.Fatalf("report %d: %v", i, err)
		}
		if !res.Created || res.Hidden {
			t.Fatalf("report %d: result = %+v, want created and not hidden", i, res)
		}
	}
	if posts.hides != 0 {
		t.Fatalf("hidden before threshold, hides = %d", posts.hides)
	}

	res, err := svc.ReportPost(ctx, reporter(ReportThreshold), 1, "spam")
	if err != nil {
		t.Fatalf("threshold report: %v", err)
	}
	if !res.Created || !res.Hidden {
		t.Fatalf("threshold result = %+v, want created and hidden", res)
	}
	if posts.hides != 1 || !posts.posts[1].IsHidden {
		t.Fatalf("post not hidden exactly once, hides = %d", posts.hides)
	}
	if len(outbox.events) != 1 || outbox.events[0] != "post_hidden:1" {
		t.Fatalf("outbox events = %v, want [post_hidden:1]", outbox.events)
	}
}

func TestReportPostDuplicateIsSoftSuccess(t *testing.T) {
	svc, posts, reports, _, _ := newModerationFixture()
	ctx := context.Background()

	if _, err := svc.ReportPost(ctx, reporter(1), 1, "spam"); err != nil {
		t.Fatalf("first report: %v", err)
	}
	res, err := svc.ReportPost(ctx, reporter(1), 1, "spam again")
	if err != nil {
		t.Fatalf("duplicate report: %v", err)
	}
	if res.Created {
		t.Error("duplicate report counted as created")
	}
	if n, _ := reports.CountDistinctReporters(1); n != 1 {
		t.Errorf("reporter count = %d, want 1", n)
	}
	if posts.hides != 0 {
		t.Errorf("duplicate report triggered hide")
	}
}

func TestReportPostValidation(t *testing.T) {
	svc, _, _, _, _ := newModerationFixture()
	ctx := context.Background()

	if _, err := svc.ReportPost(ctx, reporter(1), 1, ""); pkg.HTTPStatus(err) != 400 {
		t.Errorf("empty reason status = %d, want 400", pkg.HTTPStatus(err))
	}
	if _, err := svc.ReportPost(ctx, reporter(1), 404, "spam"); pkg.HTTPStatus(err) != 404 {
		t.Errorf("missing post status = %d, want 404", pkg.HTTPStatus(err))
	}
	banned := reporter(2)
	banned.IsBanned = true
	if _, err := svc.ReportPost(ctx, banned, 1, "spam"); pkg.HTTPStatus(err) != 403 {
		t.Errorf("banned reporter status = %d, want 403", pkg.HTTPStatus(err))
	}
}

func TestReportPostRateLimited(t *testing.T) {
	svc, _, reports, _, _ := newModerationFixture()
	svc.limiter = stubLimiter{allow: false}

	_, err := svc.ReportPost(context.Background(), reporter(1), 1, "spam")
	if pkg.HTTPStatus(err) != 429 {
		t.Fatalf("status = %d, want 429", pkg.HTTPStatus(err))
	}
	if len(reports.rows) != 0 {
		t.Error("rejected report was persisted")
	}
}

func TestRetractReportUnhidesBelowThreshold(t *testing.T) {
	svc, posts, _, audit, outbox := newModerationFixture()
	ctx := context.Background()

	for i := uint64(1); i <= ReportThreshold; i++ {
		if _, err := svc.ReportPost(ctx, reporter(i), 1, "spam"); err != nil {
			t.Fatalf("report %d: %v", i, err)
		}
	}
	if !posts.posts[1].IsHidden {
		t.Fatal("post not hidden after threshold")
	}

	admin := &model.User{ID: 100, IsStaff: true}
	if err := svc.RetractPostReport(admin, 1); err != nil {
		t.Fatalf("RetractPostReport: %v", err)
	}
	if posts.posts[1].IsHidden {
		t.Error("post still hidden after count dropped below threshold")
	}
	if posts.posts[1].UnhideOverride {
		t.Error("derived unhide set the admin override")
	}
	last := outbox.events[len(outbox.events)-1]
	if last != "post_unhidden:1" {
		t.Errorf("last event = %s, want post_unhidden:1", last)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditActionDeleteReport {
		t.Errorf("audit entries = %+v, want one delete_report", audit.entries)
	}
}

func TestRetractReportKeepsHiddenAtThreshold(t *testing.T) {
	svc, posts, _, _, _ := newModerationFixture()
	ctx := context.Background()

	for i := uint64(1); i <= ReportThreshold+1; i++ {
		if _, err := svc.ReportPost(ctx, reporter(i), 1, "spam"); err != nil {
			t.Fatalf("report %d: %v", i, err)
		}
	}

	admin := &model.User{ID: 100, IsStaff: true}
	if err := svc.RetractPostReport(admin, 1); err != nil {
		t.Fatalf("RetractPostReport: %v", err)
	}
	if !posts.posts[1].IsHidden {
		t.Error("post unhidden while count still at threshold")
	}
	if posts.unhides != 0 {
		t.Errorf("unhides = %d, want 0", posts.unhides)
	}
}

func TestRetractMissingReport(t *testing.T) {
	svc, _, _, _, _ := newModerationFixture()
	admin := &model.User{ID: 100, IsStaff: true}
	err := svc.RetractPostReport(admin, 999)
	if pkg.HTTPStatus(err) != 404 {
		t.Errorf("status = %d, want 404", pkg.HTTPStatus(err))
	}
}

func TestAdminUnhideSetsOverride(t *testing.T) {
	svc, posts, _, audit, _ := newModerationFixture()
	ctx := context.Background()

	for i := uint64(1); i <= ReportThreshold; i++ {
		if _, err := svc.ReportPost(ctx, reporter(i), 1, "spam"); err != nil {
			t.Fatalf("report %d: %v", i, err)
		}
	}

	admin := &model.User{ID: 100, IsSuperuser: true}
	if err := svc.UnhidePost(admin, 1); err != nil {
		t.Fatalf("UnhidePost: %v", err)
	}
	if posts.posts[1].IsHidden {
		t.Error("post still hidden after admin unhide")
	}
	if !posts.posts[1].UnhideOverride {
		t.Error("admin unhide did not set the override")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditActionUnhidePost {
		t.Errorf("audit entries = %+v, want one unhide_post", audit.entries)
	}

	// A fresh report that crosses the threshold again supersedes the override.
	res, err := svc.ReportPost(ctx, reporter(ReportThreshold+1), 1, "spam")
	if err != nil {
		t.Fatalf("post-override report: %v", err)
	}
	if !res.Hidden || !posts.posts[1].IsHidden {
		t.Error("new threshold crossing did not re-hide the post")
	}
	if posts.posts[1].UnhideOverride {
		t.Error("re-hide left the override set")
	}
}

func TestReportAlreadyHiddenDoesNotHideAgain(t *testing.T) {
	svc, posts, _, _, outbox := newModerationFixture()
	ctx := context.Background()

	for i := uint64(1); i <= ReportThreshold; i++ {
		if _, err := svc.ReportPost(ctx, reporter(i), 1, "spam"); err != nil {
			t.Fatalf("report %d: %v", i, err)
		}
	}
	res, err := svc.ReportPost(ctx, reporter(ReportThreshold+1), 1, "spam")
	if err != nil {
		t.Fatalf("extra report: %v", err)
	}
	if !res.Created || !res.Hidden {
		t.Fatalf("extra result = %+v, want created and hidden", res)
	}
	if posts.hides != 1 {
		t.Errorf("hides = %d, want 1", posts.hides)
	}
	if len(outbox.events) != 1 {
		t.Errorf("events = %v, want a single post_hidden", outbox.events)
	}
}

func TestBanAndUnbanUser(t *testing.T) {
	svc, _, _, audit, outbox := newModerationFixture()
	admin := &model.User{ID: 100, IsStaff: true}

	if err := svc.BanUser(admin, 9, "abuse"); err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	users := svc.users.(*fakeUserStore)
	if !users.users[9].IsBanned {
		t.Error("target not banned")
	}
	if err := svc.UnbanUser(admin, 9, "appeal accepted"); err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	if users.users[9].IsBanned {
		t.Error("target still banned")
	}

	if len(audit.entries) != 2 ||
		audit.entries[0].Action != model.AuditActionBanUser ||
		audit.entries[1].Action != model.AuditActionUnbanUser {
		t.Errorf("audit = %+v, want ban_user then unban_user", audit.entries)
	}
	want := []string{"user_banned:9", "user_unbanned:9"}
	if len(outbox.events) != 2 || outbox.events[0] != want[0] || outbox.events[1] != want[1] {
		t.Errorf("events = %v, want %v", outbox.events, want)
	}

	if err := svc.BanUser(admin, 404, "no such user"); pkg.HTTPStatus(err) != 404 {
		t.Errorf("missing user ban status = %d, want 404", pkg.HTTPStatus(err))
	}
}
