package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
)

// PasswordHasher hashes plaintext passwords for storage.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service handles account business logic shared by registration and admin
// management.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	now    func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher, now: time.Now}
}

// Create validates availability, hashes the password and stores a new user.
// The role defaults to subscriber.
func (s *Service) Create(ctx context.Context, in NewUser) (*User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Name == "" || len([]rune(in.Name)) > MaxNameLength ||
		len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("users: create: %w", shared.ErrValidation)
	}
	if in.Role == "" {
		in.Role = rbac.Subscriber
	}
	if !in.Role.Valid() {
		return nil, fmt.Errorf("users: create: role %q: %w", in.Role, shared.ErrValidation)
	}

	// Not atomic with the insert; the unique constraints stay authoritative.
	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}
	user := User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Date:         creationDate(s.now()),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// checkAvailable runs the email and username lookups concurrently. Both always
// run; an email collision is reported ahead of a username collision.
func (s *Service) checkAvailable(ctx context.Context, username, email string) error {
	var emailTaken, usernameTaken bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		taken, err := exists(s.repo.FindByEmail(gctx, email))
		emailTaken = taken
		return err
	})
	g.Go(func() error {
		taken, err := exists(s.repo.FindByUsername(gctx, username))
		usernameTaken = taken
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("users: check availability: %w", err)
	}
	switch {
	case emailTaken:
		return ErrEmailTaken
	case usernameTaken:
		return ErrUsernameTaken
	}
	return nil
}

func exists(_ *User, err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// Get returns the user with id.
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByEmail returns the user registered with email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, strings.TrimSpace(email))
}

// ListUsers returns subscribers and authors. Super admins are never listed.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.repo.ListByRoles(ctx, rbac.Listable.Roles())
}

// UpdateProfile changes username, name or email of the user with id.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	upd, err := upd.normalize()
	if err != nil {
		return nil, err
	}
	if upd.Empty() {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the user with id and returns it.
func (s *Service) Delete(ctx context.Context, id string) (*User, error) {
	return s.repo.Delete(ctx, id)
}
