package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/users"
)

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Issue(userID string) (string, error)
	Verify(raw string) (string, error)
}

// Service wraps registration, login and self-service account rules.
type Service struct {
	accounts *users.Service
	tokens   Tokens
	hasher   *BcryptHasher
	throttle *Throttle
}

// NewService constructs a new Service. throttle may be nil.
func NewService(accounts *users.Service, tokens Tokens, hasher *BcryptHasher, throttle *Throttle) *Service {
	return &Service{accounts: accounts, tokens: tokens, hasher: hasher, throttle: throttle}
}

// Register creates a subscriber or author account and returns a token for
// it. Public registration never grants super_admin.
func (s *Service) Register(ctx context.Context, in users.NewUser) (string, error) {
	if in.Role == rbac.SuperAdmin {
		return "", fmt.Errorf("auth: register: role %s: %w", in.Role, shared.ErrValidation)
	}
	user, err := s.accounts.Create(ctx, in)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.ID)
}

// Login verifies email/password credentials and returns a token. Unknown
// emails and wrong passwords fail the same way.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if !s.throttle.Allow(ctx, email) {
		return "", shared.ErrTooManyAttempts
	}
	user, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: login: %w", err)
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", shared.ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID)
}

// Current reloads the authenticated user from the store.
func (s *Service) Current(ctx context.Context, id string) (*users.User, error) {
	return s.accounts.Get(ctx, id)
}

// UpdateAccount changes the caller's own username, name or email.
func (s *Service) UpdateAccount(ctx context.Context, id string, upd users.ProfileUpdate) (*users.User, error) {
	return s.accounts.UpdateProfile(ctx, id, upd)
}
