// Package mongostore implements the user and post repositories on MongoDB.
// Ids are ObjectID hex strings; posts embed their likes and comments.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

type Store struct {
	db *mongo.Database
}

// New ensures the indexes the repositories rely on and returns a Store.
func New(ctx context.Context, db *mongo.Database) (*Store, error) {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create users.email index: %w", err)
	}
	_, err = db.Collection(postsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create posts.date index: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Users() users.Repository {
	return userRepo{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Posts() posts.Repository {
	return postRepo{coll: s.db.Collection(postsCollection)}
}

type userRepo struct {
	coll *mongo.Collection
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r userRepo) FindByID(ctx context.Context, id string) (*users.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, users.ErrInvalidID
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r userRepo) findOne(ctx context.Context, filter bson.D) (*users.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toUser(), nil
}

func (r userRepo) Insert(ctx context.Context, u *users.User) error {
	doc := userDoc{
		ID:       bson.NewObjectID(),
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Avatar:   u.Avatar,
		Date:     u.Date,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return users.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID.Hex()
	return nil
}

type postRepo struct {
	coll *mongo.Collection
}

func (postRepo) NewID() string { return bson.NewObjectID().Hex() }

func (r postRepo) Insert(ctx context.Context, p *posts.Post) error {
	p.ID = bson.NewObjectID().Hex()
	doc, err := newPostDoc(p)
	if err != nil {
		p.ID = ""
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		p.ID = ""
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r postRepo) FindAll(ctx context.Context) ([]posts.Post, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	out := make([]posts.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toPost())
	}
	return out, nil
}

func (r postRepo) FindByID(ctx context.Context, id string) (*posts.Post, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, posts.ErrInvalidID
	}
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	p := doc.toPost()
	return &p, nil
}

func (r postRepo) Save(ctx context.Context, p *posts.Post) error {
	doc, err := newPostDoc(p)
	if err != nil {
		return err
	}
	res, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc)
	if err != nil {
		return fmt.Errorf("save post: %w", err)
	}
	if res.MatchedCount == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r postRepo) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return posts.ErrInvalidID
	}
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return posts.ErrNotFound
	}
	return nil
}
