// Package fakes provides in-memory stores for tests.
package fakes

import (
	"context"
	"sync"

	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/users"
)

// Users is an in-memory users.Repository that enforces unique usernames and
// emails like the database constraints do.
type Users struct {
	mu    sync.Mutex
	order []string
	byID  map[string]users.User
	// Err, when set, is returned by every call.
	Err error
}

// NewUsers returns an empty store.
func NewUsers() *Users {
	return &Users{byID: map[string]users.User{}}
}

// Put stores u directly, bypassing uniqueness checks.
func (s *Users) Put(u users.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.byID[u.ID] = u
}

// Len returns the number of stored users.
func (s *Users) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *Users) Create(_ context.Context, u users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return users.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return users.ErrUsernameTaken
		}
	}
	s.order = append(s.order, u.ID)
	s.byID[u.ID] = u
	return nil
}

func (s *Users) find(match func(users.User) bool) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, id := range s.order {
		if u, ok := s.byID[id]; ok && match(u) {
			return &u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *Users) FindByID(_ context.Context, id string) (*users.User, error) {
	return s.find(func(u users.User) bool { return u.ID == id })
}

func (s *Users) FindByEmail(_ context.Context, email string) (*users.User, error) {
	return s.find(func(u users.User) bool { return u.Email == email })
}

func (s *Users) FindByUsername(_ context.Context, username string) (*users.User, error) {
	return s.find(func(u users.User) bool { return u.Username == username })
}

func (s *Users) ListByRoles(_ context.Context, roles []rbac.Role) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	set := rbac.NewSet(roles...)
	out := []users.User{}
	for _, id := range s.order {
		if u, ok := s.byID[id]; ok && set.Allows(u.Role) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Users) Update(_ context.Context, id string, upd users.ProfileUpdate) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	for otherID, other := range s.byID {
		if otherID == id {
			continue
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return nil, users.ErrEmailTaken
		}
		if upd.Username != nil && other.Username == *upd.Username {
			return nil, users.ErrUsernameTaken
		}
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	s.byID[id] = u
	return &u, nil
}

func (s *Users) Delete(_ context.Context, id string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(s.byID, id)
	return &u, nil
}

var _ users.Repository = (*Users)(nil)
