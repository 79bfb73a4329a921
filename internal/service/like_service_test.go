package service

import (
	"context"
	"testing"

	"campusanon/internal/model"
	"campusanon/internal/pkg"

	"gorm.io/gorm"
)

type fakeLikeStore struct {
	likes map[[2]uint64]bool // (user, target)
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[[2]uint64]bool{}}
}

func (f *fakeLikeStore) Toggle(ctx context.Context, userID, targetID uint64) (bool, error) {
	key := [2]uint64{userID, targetID}
	if f.likes[key] {
		delete(f.likes, key)
		return false, nil
	}
	f.likes[key] = true
	return true, nil
}

func (f *fakeLikeStore) Count(ctx context.Context, targetID uint64) (int64, error) {
	var n int64
	for key := range f.likes {
		if key[1] == targetID {
			n++
		}
	}
	return n, nil
}

type fakeCommentFinder struct {
	comments map[uint64]*model.Comment
}

func (f *fakeCommentFinder) FindByID(id uint64) (*model.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func newLikeFixture() (*LikeService, *fakePostStore, *fakeOutbox) {
	posts := &fakePostStore{posts: map[uint64]*model.Post{
		1: {ID: 1, CommunityID: 1, AuthorID: 9, Content: "hello"},
		2: {ID: 2, CommunityID: 1, AuthorID: 9, Content: "hidden", IsHidden: true},
	}}
	outbox := &fakeOutbox{}
	svc := &LikeService{
		postLikes:    newFakeLikeStore(),
		commentLikes: newFakeLikeStore(),
		posts:        posts,
		comments: &fakeCommentFinder{comments: map[uint64]*model.Comment{
			1: {ID: 1, PostID: 1, AuthorID: 9, Content: "hi"},
		}},
		outbox:  outbox,
		limiter: stubLimiter{allow: true},
	}
	return svc, posts, outbox
}

// Toggling twice is an involution: the second toggle restores the initial
// state, for state and count alike.
func TestTogglePostInvolution(t *testing.T) {
	svc, _, outbox := newLikeFixture()
	ctx := context.Background()
	user := &model.User{ID: 3}

	res, err := svc.TogglePost(ctx, user, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("first toggle = %+v, want liked with count 1", res)
	}

	res, err = svc.TogglePost(ctx, user, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if res.Liked || res.LikesCount != 0 {
		t.Fatalf("second toggle = %+v, want unliked with count 0", res)
	}

	res, err = svc.TogglePost(ctx, user, 1)
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("third toggle = %+v, want liked again with count 1", res)
	}

	// Only the like transitions notified the author, never the unlike.
	if len(outbox.events) != 2 {
		t.Errorf("events = %v, want one per like transition", outbox.events)
	}
}

func TestTogglePostCounts(t *testing.T) {
	svc, _, _ := newLikeFixture()
	ctx := context.Background()

	for id := uint64(3); id <= 5; id++ {
		res, err := svc.TogglePost(ctx, &model.User{ID: id}, 1)
		if err != nil {
			t.Fatalf("user %d: %v", id, err)
		}
		if res.LikesCount != int64(id-2) {
			t.Errorf("count after user %d = %d, want %d", id, res.LikesCount, id-2)
		}
	}
}

func TestTogglePostRefusals(t *testing.T) {
	svc, _, _ := newLikeFixture()
	ctx := context.Background()

	if _, err := svc.TogglePost(ctx, &model.User{ID: 3}, 2); pkg.HTTPStatus(err) != 404 {
		t.Errorf("hidden post status = %d, want 404", pkg.HTTPStatus(err))
	}
	if _, err := svc.TogglePost(ctx, &model.User{ID: 3}, 404); pkg.HTTPStatus(err) != 404 {
		t.Errorf("missing post status = %d, want 404", pkg.HTTPStatus(err))
	}
	banned := &model.User{ID: 3, IsBanned: true}
	if _, err := svc.TogglePost(ctx, banned, 1); pkg.HTTPStatus(err) != 403 {
		t.Errorf("banned status = %d, want 403", pkg.HTTPStatus(err))
	}
	svc.limiter = stubLimiter{allow: false}
	if _, err := svc.TogglePost(ctx, &model.User{ID: 3}, 1); pkg.HTTPStatus(err) != 429 {
		t.Errorf("limited status = %d, want 429", pkg.HTTPStatus(err))
	}
}

func TestTogglePostSelfLikeNoNotification(t *testing.T) {
	svc, posts, outbox := newLikeFixture()
	ctx := context.Background()
	author := &model.User{ID: posts.posts[1].AuthorID}

	res, err := svc.TogglePost(ctx, author, 1)
	if err != nil {
		t.Fatalf("self like: %v", err)
	}
	if !res.Liked {
		t.Fatal("self like not applied")
	}
	if len(outbox.events) != 0 {
		t.Errorf("self like produced events %v", outbox.events)
	}
}

func TestToggleCommentInvolution(t *testing.T) {
	svc, _, outbox := newLikeFixture()
	ctx := context.Background()
	user := &model.User{ID: 3}

	res, err := svc.ToggleComment(ctx, user, 1)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !res.Liked || res.LikesCount != 1 {
		t.Fatalf("first toggle = %+v, want liked with count 1", res)
	}
	res, err = svc.ToggleComment(ctx, user, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if res.Liked || res.LikesCount != 0 {
		t.Fatalf("second toggle = %+v, want unliked with count 0", res)
	}
	if len(outbox.events) != 0 {
		t.Errorf("comment likes produced events %v", outbox.events)
	}
}
