package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Ponloe/postboard/internal/database"
	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

func TestPostDocConversion(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &posts.Post{
		ID:       bson.NewObjectID().Hex(),
		User:     bson.NewObjectID().Hex(),
		Text:     "hello",
		Likes:    []posts.Like{{User: bson.NewObjectID().Hex(), Date: now}},
		Comments: []posts.Comment{{ID: bson.NewObjectID().Hex(), User: bson.NewObjectID().Hex(), Text: "hi", Date: now}},
		Date:     now,
	}

	doc, err := newPostDoc(p)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	back := doc.toPost()
	if back.ID != p.ID || back.User != p.User || back.Text != p.Text {
		t.Fatalf("post fields changed: %+v", back)
	}
	if back.Likes[0] != p.Likes[0] || back.Comments[0] != p.Comments[0] {
		t.Fatalf("sub-lists changed: %+v", back)
	}
}

func TestPostDocRejectsForeignIDs(t *testing.T) {
	good := bson.NewObjectID().Hex()
	cases := map[string]*posts.Post{
		"post id":    {ID: "123", User: good},
		"author id":  {ID: good, User: "abc"},
		"like user":  {ID: good, User: good, Likes: []posts.Like{{User: "x"}}},
		"comment id": {ID: good, User: good, Comments: []posts.Comment{{ID: "x", User: good}}},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := newPostDoc(p); !errors.Is(err, posts.ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}

func TestPostDocEmptyListsDecodeAsEmpty(t *testing.T) {
	doc := postDoc{ID: bson.NewObjectID(), User: bson.NewObjectID()}
	p := doc.toPost()
	if p.Likes == nil || p.Comments == nil {
		t.Fatalf("expected non-nil sub-lists")
	}
}

// openTestStore connects to POSTBOARD_TEST_MONGO_URI and uses a throwaway
// database that is dropped when the test ends.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("POSTBOARD_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("POSTBOARD_TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, err := database.ConnectMongo(ctx, uri)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	db := client.Database("postboard_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	st, err := New(ctx, db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return st
}

func TestMongoUserRepo(t *testing.T) {
	st := openTestStore(t)
	repo := st.Users()
	ctx := context.Background()

	u := &users.User{Name: "A", Email: "a@x.com", Password: "hash", Date: time.Now().UTC()}
	if err := repo.Insert(ctx, u); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.FindByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Fatalf("unexpected user %+v", got)
	}
	if err := repo.Insert(ctx, &users.User{Name: "B", Email: "a@x.com"}); !errors.Is(err, users.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "nope"); !errors.Is(err, users.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "b@x.com"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMongoPostRepo(t *testing.T) {
	st := openTestStore(t)
	repo := st.Posts()
	ctx := context.Background()
	author := bson.NewObjectID().Hex()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for _, h := range []int{1, 0, 2} {
		p := &posts.Post{User: author, Text: "p", Date: base.Add(time.Duration(h) * time.Hour)}
		if err := repo.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, p.ID)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 3 || all[0].ID != ids[2] || all[2].ID != ids[1] {
		t.Fatalf("posts not newest first: %+v", all)
	}

	p, err := repo.FindByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	p.Likes = append(p.Likes, posts.Like{User: author, Date: base})
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	p, err = repo.FindByID(ctx, ids[0])
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(p.Likes) != 1 {
		t.Fatalf("expected one like, got %+v", p.Likes)
	}

	if err := repo.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, ids[0]); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.Save(ctx, p); !errors.Is(err, posts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on save, got %v", err)
	}
}
