package posts

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/Ponloe/postboard/internal/users"
)

// memRepo is a map-backed Repository that copies documents in and out,
// so tests see the same read-modify-write behaviour as a real store.
type memRepo struct {
	mu   sync.Mutex
	docs map[string]Post
	seq  int
}

func newMemRepo() *memRepo { return &memRepo{docs: map[string]Post{}} }

func (m *memRepo) NewID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	return "id" + strconv.Itoa(m.seq)
}

func (m *memRepo) Insert(_ context.Context, p *Post) error {
	p.ID = m.NewID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[p.ID] = clonePost(*p)
	return nil
}

func (m *memRepo) FindAll(context.Context) ([]Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Post, 0, len(m.docs))
	for _, p := range m.docs {
		out = append(out, clonePost(p))
	}
	slices.SortFunc(out, func(a, b Post) int { return b.Date.Compare(a.Date) })
	return out, nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*Post, error) {
	if id == "bad" {
		return nil, ErrInvalidID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := clonePost(p)
	return &cp, nil
}

func (m *memRepo) Save(_ context.Context, p *Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[p.ID]; !ok {
		return ErrNotFound
	}
	m.docs[p.ID] = clonePost(*p)
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func clonePost(p Post) Post {
	p.Likes = slices.Clone(p.Likes)
	p.Comments = slices.Clone(p.Comments)
	return p
}

var (
	alice = &users.User{ID: "alice", Name: "Alice", Avatar: "//a"}
	bob   = &users.User{ID: "bob", Name: "Bob", Avatar: "//b"}
	carol = &users.User{ID: "carol", Name: "Carol", Avatar: "//c"}
)

func newTestService() *Service {
	return NewService(newMemRepo())
}

func mustCreate(t *testing.T, s *Service, author *users.User, text string) *Post {
	t.Helper()
	p, err := s.Create(context.Background(), author, text)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return p
}

func TestCreateSnapshotsAuthor(t *testing.T) {
	s := newTestService()
	p := mustCreate(t, s, alice, "hello")

	if p.ID == "" || p.User != "alice" || p.Name != "Alice" || p.Avatar != "//a" {
		t.Fatalf("unexpected post %+v", p)
	}
	if p.Likes == nil || len(p.Likes) != 0 || p.Comments == nil || len(p.Comments) != 0 {
		t.Fatalf("expected empty sub-lists, got %+v", p)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestService()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, h := range []int{3, 1, 4, 2} {
		at := base.Add(time.Duration(h) * time.Hour)
		s.now = func() time.Time { return at }
		mustCreate(t, s, alice, "post "+strconv.Itoa(h))
	}

	ps, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var texts []string
	for _, p := range ps {
		texts = append(texts, p.Text)
	}
	want := []string{"post 4", "post 3", "post 2", "post 1"}
	if !slices.Equal(texts, want) {
		t.Fatalf("got %v, want %v", texts, want)
	}
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hello")

	if err := s.Delete(ctx, p.ID, "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := s.Get(ctx, p.ID); err != nil {
		t.Fatalf("post should survive forbidden delete: %v", err)
	}
	if err := s.Delete(ctx, p.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, p.ID, "alice"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLikeTwiceRejected(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hello")

	likes, err := s.AddLike(ctx, p.ID, "bob")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if len(likes) != 1 || likes[0].User != "bob" {
		t.Fatalf("unexpected likes %+v", likes)
	}

	if _, err := s.AddLike(ctx, p.ID, "bob"); !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	got, _ := s.Get(ctx, p.ID)
	if len(got.Likes) != 1 {
		t.Fatalf("like list changed: %+v", got.Likes)
	}
}

func TestLikesArePrepended(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hello")

	for _, u := range []string{"bob", "carol"} {
		if _, err := s.AddLike(ctx, p.ID, u); err != nil {
			t.Fatalf("like: %v", err)
		}
	}
	got, _ := s.Get(ctx, p.ID)
	if got.Likes[0].User != "carol" || got.Likes[1].User != "bob" {
		t.Fatalf("expected newest like first, got %+v", got.Likes)
	}
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hello")
	if _, err := s.AddLike(ctx, p.ID, "carol"); err != nil {
		t.Fatalf("like: %v", err)
	}
	before, _ := s.Get(ctx, p.ID)

	if _, err := s.AddLike(ctx, p.ID, "bob"); err != nil {
		t.Fatalf("like: %v", err)
	}
	likes, err := s.RemoveLike(ctx, p.ID, "bob")
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if !slices.Equal(likes, before.Likes) {
		t.Fatalf("round trip changed likes: %+v vs %+v", likes, before.Likes)
	}

	if _, err := s.RemoveLike(ctx, p.ID, "bob"); !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}
}

func TestMissingAndInvalidPost(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	if _, err := s.AddLike(ctx, "nope", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RemoveLike(ctx, "bad", "bob"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := s.AddComment(ctx, "nope", bob, "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.RemoveComment(ctx, "nope", "c", "bob"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommentLifecycle(t *testing.T) {
	s := newTestService()
	ctx := context.Background()
	p := mustCreate(t, s, alice, "hello")

	if _, err := s.AddComment(ctx, p.ID, bob, "first"); err != nil {
		t.Fatalf("comment: %v", err)
	}
	comments, err := s.AddComment(ctx, p.ID, carol, "second")
	if err != nil {
		t.Fatalf("comment: %v", err)
	}
	if len(comments) != 2 || comments[0].Text != "second" || comments[0].Name != "Carol" || comments[0].Avatar != "//c" {
		t.Fatalf("unexpected comments %+v", comments)
	}
	bobs, carols := comments[1], comments[0]
	if bobs.ID == "" || bobs.ID == carols.ID {
		t.Fatalf("expected distinct comment ids, got %q and %q", bobs.ID, carols.ID)
	}

	if _, err := s.RemoveComment(ctx, p.ID, "missing", "bob"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
	// Carol neither wrote Bob's comment nor owns the post.
	if _, err := s.RemoveComment(ctx, p.ID, bobs.ID, "carol"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	// Bob removes his own comment; Carol's, at a different index, stays.
	comments, err = s.RemoveComment(ctx, p.ID, bobs.ID, "bob")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(comments) != 1 || comments[0].ID != carols.ID {
		t.Fatalf("wrong comment removed: %+v", comments)
	}

	// The post author may remove anyone's comment.
	comments, err = s.RemoveComment(ctx, p.ID, carols.ID, "alice")
	if err != nil {
		t.Fatalf("remove as post author: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected no comments, got %+v", comments)
	}
}
