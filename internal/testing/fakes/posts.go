package fakes

import (
	"context"
	"sync"

	"github.com/quill-blog/quill/internal/posts"
	"github.com/quill-blog/quill/internal/shared"
)

// Posts is an in-memory posts.Repository. Views join against Users and skip
// posts whose owner is gone, matching the cascading delete of the database.
type Posts struct {
	mu    sync.Mutex
	order []string
	byID  map[string]posts.Post
	users *Users
	// Err, when set, is returned by every call.
	Err error
}

// NewPosts returns an empty store joined against users.
func NewPosts(users *Users) *Posts {
	return &Posts{byID: map[string]posts.Post{}, users: users}
}

// Len returns the number of stored posts.
func (s *Posts) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Snapshot returns a copy of the stored post with id.
func (s *Posts) Snapshot(id string) (posts.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	return p, ok
}

func (s *Posts) Create(_ context.Context, p posts.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.order = append([]string{p.ID}, s.order...)
	s.byID[p.ID] = p
	return nil
}

func (s *Posts) FindByID(_ context.Context, id string) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &p, nil
}

func (s *Posts) Update(_ context.Context, id string, upd posts.PostUpdate) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Body != nil {
		p.Body = *upd.Body
	}
	s.byID[id] = p
	return &p, nil
}

func (s *Posts) Delete(_ context.Context, id string) (*posts.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	delete(s.byID, id)
	return &p, nil
}

func (s *Posts) views(match func(posts.Post) bool) ([]posts.PostView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []posts.PostView{}
	for _, id := range s.order {
		p, ok := s.byID[id]
		if !ok || !match(p) {
			continue
		}
		owner, err := s.users.FindByID(context.Background(), p.UserID)
		if err != nil {
			continue
		}
		out = append(out, posts.PostView{
			ID:    p.ID,
			Title: p.Title,
			Body:  p.Body,
			Date:  p.Date,
			User:  posts.Author{ID: owner.ID, Name: owner.Name, Username: owner.Username},
		})
	}
	return out, nil
}

func (s *Posts) FindPostsWithAuthor(_ context.Context) ([]posts.PostView, error) {
	return s.views(func(posts.Post) bool { return true })
}

func (s *Posts) FindPostWithAuthor(_ context.Context, id string) (*posts.PostView, error) {
	out, err := s.views(func(p posts.Post) bool { return p.ID == id })
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, shared.ErrNotFound
	}
	return &out[0], nil
}

func (s *Posts) FindPostsWithAuthorByUser(_ context.Context, userID string) ([]posts.PostView, error) {
	return s.views(func(p posts.Post) bool { return p.UserID == userID })
}

var _ posts.Repository = (*Posts)(nil)
