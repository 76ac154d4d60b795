package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Directory holds credentials and profiles on top of a Repository.
type Directory struct {
	repo Repository
	cost int
	now  func() time.Time
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo, cost: bcrypt.DefaultCost, now: time.Now}
}

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (d *Directory) WithCost(cost int) *Directory {
	d.cost = cost
	return d
}

func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.repo.FindByEmail(ctx, normalizeEmail(email))
}

func (d *Directory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.repo.FindByID(ctx, id)
}

// Register creates a user with a hashed password and a Gravatar avatar.
// The email check and the insert are not atomic; two concurrent
// registrations of one email can both pass the check.
func (d *Directory) Register(ctx context.Context, name, email, rawPassword string) (*User, error) {
	email = normalizeEmail(email)

	_, err := d.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hashed, err := HashPassword(rawPassword, d.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Avatar:   GravatarURL(email),
		Date:     d.now().UTC(),
	}
	if err := d.repo.Insert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Directory) VerifyPassword(u *User, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(rawPassword)) == nil
}

func HashPassword(pw string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	return string(b), err
}
