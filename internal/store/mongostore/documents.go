package mongostore

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/Ponloe/postboard/internal/posts"
	"github.com/Ponloe/postboard/internal/users"
)

type userDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	Name     string        `bson:"name"`
	Email    string        `bson:"email"`
	Password string        `bson:"password"`
	Avatar   string        `bson:"avatar"`
	Date     time.Time     `bson:"date"`
}

func (d *userDoc) toUser() *users.User {
	return &users.User{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Email:    d.Email,
		Password: d.Password,
		Avatar:   d.Avatar,
		Date:     d.Date,
	}
}

type postDoc struct {
	ID       bson.ObjectID `bson:"_id"`
	User     bson.ObjectID `bson:"user"`
	Text     string        `bson:"text"`
	Name     string        `bson:"name"`
	Avatar   string        `bson:"avatar"`
	Likes    []likeDoc     `bson:"likes"`
	Comments []commentDoc  `bson:"comments"`
	Date     time.Time     `bson:"date"`
}

type likeDoc struct {
	User bson.ObjectID `bson:"user"`
	Date time.Time     `bson:"date"`
}

type commentDoc struct {
	ID     bson.ObjectID `bson:"_id"`
	User   bson.ObjectID `bson:"user"`
	Text   string        `bson:"text"`
	Name   string        `bson:"name"`
	Avatar string        `bson:"avatar"`
	Date   time.Time     `bson:"date"`
}

// newPostDoc converts p. Every id inside p must be an ObjectID hex string,
// otherwise posts.ErrInvalidID is returned.
func newPostDoc(p *posts.Post) (*postDoc, error) {
	var err error
	oid := func(s string) bson.ObjectID {
		id, perr := bson.ObjectIDFromHex(s)
		if perr != nil && err == nil {
			err = posts.ErrInvalidID
		}
		return id
	}

	d := &postDoc{
		ID:       oid(p.ID),
		User:     oid(p.User),
		Text:     p.Text,
		Name:     p.Name,
		Avatar:   p.Avatar,
		Likes:    make([]likeDoc, 0, len(p.Likes)),
		Comments: make([]commentDoc, 0, len(p.Comments)),
		Date:     p.Date,
	}
	for _, l := range p.Likes {
		d.Likes = append(d.Likes, likeDoc{User: oid(l.User), Date: l.Date})
	}
	for _, c := range p.Comments {
		d.Comments = append(d.Comments, commentDoc{
			ID:     oid(c.ID),
			User:   oid(c.User),
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.Date,
		})
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *postDoc) toPost() posts.Post {
	p := posts.Post{
		ID:       d.ID.Hex(),
		User:     d.User.Hex(),
		Text:     d.Text,
		Name:     d.Name,
		Avatar:   d.Avatar,
		Likes:    make([]posts.Like, 0, len(d.Likes)),
		Comments: make([]posts.Comment, 0, len(d.Comments)),
		Date:     d.Date,
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, posts.Like{User: l.User.Hex(), Date: l.Date})
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, posts.Comment{
			ID:     c.ID.Hex(),
			User:   c.User.Hex(),
			Text:   c.Text,
			Name:   c.Name,
			Avatar: c.Avatar,
			Date:   c.Date,
		})
	}
	return p
}
