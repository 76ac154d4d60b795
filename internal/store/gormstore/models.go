package gormstore

import (
	"time"

	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

type userRecord struct {
	ID       string `gorm:"primaryKey;size:36"`
	Name     string `gorm:"not null"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null"`
	Avatar   string
	Date     time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toUser() *users.User {
	return &users.User{
		ID:       r.ID,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Avatar:   r.Avatar,
		Date:     r.Date,
	}
}

// postRecord keeps likes and comments as JSON columns so a post is still
// read and written as one document.
type postRecord struct {
	ID       string          `gorm:"primaryKey;size:36"`
	UserID   string          `gorm:"size:36;index;not null"`
	Text     string          `gorm:"not null"`
	Name     string
	Avatar   string
	Likes    []posts.Like    `gorm:"serializer:json;type:text"`
	Comments []posts.Comment `gorm:"serializer:json;type:text"`
	Date     time.Time       `gorm:"index"`
}

func (postRecord) TableName() string { return "posts" }

func newPostRecord(p *posts.Post) *postRecord {
	return &postRecord{
		ID:       p.ID,
		UserID:   p.User,
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    p.Likes,
		Comments: p.Comments,
		Date:     p.Date,
	}
}

func (r *postRecord) toPost() posts.Post {
	p := posts.Post{
		ID:       r.ID,
		User:     r.UserID,
		Text:     r.Text,
		Name:     r.Name,
		Avatar:   r.Avatar,
		Likes:    r.Likes,
		Comments: r.Comments,
		Date:     r.Date,
	}
	p.Normalize()
	return p
}
