package posts

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrInvalidID       = errors.New("invalid post id")
	ErrForbidden       = errors.New("user not authorized")
	ErrAlreadyLiked    = errors.New("post already liked")
	ErrNotLiked        = errors.New("post has not been liked")
	ErrCommentNotFound = errors.New("comment not found")
)

// Post embeds its likes and comments; they live and die with it. Name and
// Avatar are copied from the author when the post is created.
type Post struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

type Like struct {
	User string    `json:"user"`
	Date time.Time `json:"date"`
}

type Comment struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}

// Normalize replaces nil sub-lists with empty ones so they encode as [].
func (p *Post) Normalize() {
	if p.Likes == nil {
		p.Likes = []Like{}
	}
	if p.Comments == nil {
		p.Comments = []Comment{}
	}
}

// Repository persists whole post documents. Save replaces the stored
// document; there is no field-level update, so concurrent writers to one
// post race and the last Save wins.
type Repository interface {
	// NewID returns a fresh id in the store's scheme, used for comments.
	NewID() string
	Insert(ctx context.Context, p *Post) error
	// FindAll returns every post, newest Date first.
	FindAll(ctx context.Context) ([]Post, error)
	FindByID(ctx context.Context, id string) (*Post, error)
	Save(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
}
