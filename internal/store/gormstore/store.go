// Package gormstore implements the user and post repositories on gorm.
// Ids are UUID strings.
package gormstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ponloe/postboard/internal/database"
	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

type Store struct {
	db *gorm.DB
}

// New migrates the users and posts tables and returns a Store on db.
func New(db *gorm.DB) (*Store, error) {
	if err := database.Migrate(db, &userRecord{}, &postRecord{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewMemory returns a Store on a fresh in-memory sqlite database named
// name. Stores with different names do not share data.
func NewMemory(name string) (*Store, error) {
	db, err := database.OpenSQLite("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db.DB(): %w", err)
	}
	// One connection keeps the shared in-memory database alive and avoids
	// table lock errors between pooled connections.
	sqlDB.SetMaxOpenConns(1)
	return New(db)
}

func (s *Store) Users() users.Repository { return userRepo{db: s.db} }

func (s *Store) Posts() posts.Repository { return postRepo{db: s.db} }

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type userRepo struct {
	db *gorm.DB
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return rec.toUser(), nil
}

func (r userRepo) FindByID(ctx context.Context, id string) (*users.User, error) {
	if !validID(id) {
		return nil, users.ErrInvalidID
	}
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toUser(), nil
}

func (r userRepo) Insert(ctx context.Context, u *users.User) error {
	rec := userRecord{
		ID:       uuid.NewString(),
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Avatar:   u.Avatar,
		Date:     u.Date,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return users.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = rec.ID
	return nil
}

type postRepo struct {
	db *gorm.DB
}

func (postRepo) NewID() string { return uuid.NewString() }

func (r postRepo) Insert(ctx context.Context, p *posts.Post) error {
	rec := newPostRecord(p)
	rec.ID = uuid.NewString()
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	p.ID = rec.ID
	return nil
}

func (r postRepo) FindAll(ctx context.Context) ([]posts.Post, error) {
	var recs []postRecord
	if err := r.db.WithContext(ctx).Order("date DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	out := make([]posts.Post, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toPost())
	}
	return out, nil
}

func (r postRepo) FindByID(ctx context.Context, id string) (*posts.Post, error) {
	if !validID(id) {
		return nil, posts.ErrInvalidID
	}
	var rec postRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, posts.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	p := rec.toPost()
	return &p, nil
}

func (r postRepo) Save(ctx context.Context, p *posts.Post) error {
	if !validID(p.ID) {
		return posts.ErrInvalidID
	}
	rec := newPostRecord(p)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("save post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r postRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return posts.ErrInvalidID
	}
	res := r.db.WithContext(ctx).Delete(&postRecord{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return posts.ErrNotFound
	}
	return nil
}
