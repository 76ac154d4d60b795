package posts

import (
	"context"
	"slices"
	"time"

	"github.com/Ponloe/postboard/internal/users"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Create(ctx context.Context, author *users.User, text string) (*Post, error) {
	p := &Post{
		User:     author.ID,
		Text:     text,
		Name:     author.Name,
		Avatar:   author.Avatar,
		Likes:    []Like{},
		Comments: []Comment{},
		Date:     s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]Post, error) {
	ps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range ps {
		ps[i].Normalize()
	}
	return ps, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Normalize()
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id, callerID string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.User != callerID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) AddLike(ctx context.Context, postID, userID string) ([]Like, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if likeIndex(p.Likes, userID) >= 0 {
		return nil, ErrAlreadyLiked
	}

	p.Likes = slices.Insert(p.Likes, 0, Like{User: userID, Date: s.now().UTC()})
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) RemoveLike(ctx context.Context, postID, userID string) ([]Like, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	i := likeIndex(p.Likes, userID)
	if i < 0 {
		return nil, ErrNotLiked
	}

	p.Likes = slices.Delete(p.Likes, i, i+1)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p.Likes, nil
}

func (s *Service) AddComment(ctx context.Context, postID string, author *users.User, text string) ([]Comment, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	c := Comment{
		ID:     s.repo.NewID(),
		User:   author.ID,
		Text:   text,
		Name:   author.Name,
		Avatar: author.Avatar,
		Date:   s.now().UTC(),
	}
	p.Comments = slices.Insert(p.Comments, 0, c)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p.Comments, nil
}

// RemoveComment deletes commentID from the post. The comment's author and
// the post's author may remove it; anyone else gets ErrForbidden.
func (s *Service) RemoveComment(ctx context.Context, postID, commentID, callerID string) ([]Comment, error) {
	p, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(p.Comments, func(c Comment) bool { return c.ID == commentID })
	if i < 0 {
		return nil, ErrCommentNotFound
	}
	if p.Comments[i].User != callerID && p.User != callerID {
		return nil, ErrForbidden
	}

	p.Comments = slices.Delete(p.Comments, i, i+1)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func likeIndex(likes []Like, userID string) int {
	return slices.IndexFunc(likes, func(l Like) bool { return l.User == userID })
}
