package posts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/users"
)

// Service coordinates post reads and owner-gated writes.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns every post joined with its author.
func (s *Service) List(ctx context.Context) ([]PostView, error) {
	return s.repo.FindPostsWithAuthor(ctx)
}

// Get returns a single post joined with its author.
func (s *Service) Get(ctx context.Context, id string) (*PostView, error) {
	return s.repo.FindPostWithAuthor(ctx, id)
}

// ListByUser returns the posts owned by userID.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]PostView, error) {
	return s.repo.FindPostsWithAuthorByUser(ctx, userID)
}

// Create stores a post owned by caller.
func (s *Service) Create(ctx context.Context, caller *users.User, in NewPost) (*Post, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Body = strings.TrimSpace(in.Body)
	if in.Title == "" || in.Body == "" {
		return nil, fmt.Errorf("posts: create: %w", shared.ErrValidation)
	}
	post := Post{
		ID:     uuid.NewString(),
		UserID: caller.ID,
		Title:  in.Title,
		Body:   in.Body,
		Date:   creationDate(s.now()),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update changes title or body of the post with id. The post must exist
// before ownership is considered.
func (s *Service) Update(ctx context.Context, caller *users.User, id string, upd PostUpdate) (*Post, error) {
	post, err := s.authorize(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return nil, fmt.Errorf("posts: title: %w", shared.ErrValidation)
		}
		upd.Title = &title
	}
	if upd.Body != nil {
		body := strings.TrimSpace(*upd.Body)
		if body == "" {
			return nil, fmt.Errorf("posts: body: %w", shared.ErrValidation)
		}
		upd.Body = &body
	}
	if upd.Title == nil && upd.Body == nil {
		return post, nil
	}
	return s.repo.Update(ctx, id, upd)
}

// Delete removes the post with id and returns it.
func (s *Service) Delete(ctx context.Context, caller *users.User, id string) (*Post, error) {
	if _, err := s.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) authorize(ctx context.Context, caller *users.User, id string) (*Post, error) {
	if caller == nil {
		return nil, shared.ErrUnauthenticated
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanModify(post, caller) {
		return nil, fmt.Errorf("posts: user %s on post %s: %w", caller.ID, id, shared.ErrNotAuthorized)
	}
	return post, nil
}
