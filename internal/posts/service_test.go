package posts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/quill/internal/posts"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/testing/fakes"
	"github.com/quill-blog/quill/internal/users"
	_ "github.com/quill-blog/quill/testing"
)

type world struct {
	users *fakes.Users
	posts *fakes.Posts
	svc   *posts.Service
}

func newWorld() *world {
	u := fakes.NewUsers()
	p := fakes.NewPosts(u)
	return &world{users: u, posts: p, svc: posts.NewService(p)}
}

func (w *world) user(id string, role rbac.Role) *users.User {
	u := users.User{ID: id, Username: id, Name: "Name " + id, Email: id + "@example.com", Role: role}
	w.users.Put(u)
	return &u
}

func str(s string) *string { return &s }

func TestCreateForcesOwner(t *testing.T) {
	w := newWorld()
	alice := w.user("alice", rbac.Author)

	post, err := w.svc.Create(context.Background(), alice, posts.NewPost{Title: " T ", Body: "B"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, post.UserID)
	assert.Equal(t, "T", post.Title)
	assert.NotEmpty(t, post.Date)
	assert.NotEmpty(t, post.ID)
}

func TestCreateValidation(t *testing.T) {
	w := newWorld()
	alice := w.user("alice", rbac.Author)

	_, err := w.svc.Create(context.Background(), alice, posts.NewPost{Title: "", Body: "B"})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = w.svc.Create(context.Background(), alice, posts.NewPost{Title: "T", Body: "  "})
	assert.ErrorIs(t, err, shared.ErrValidation)
	_, err = w.svc.Create(context.Background(), nil, posts.NewPost{Title: "T", Body: "B"})
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
	assert.Zero(t, w.posts.Len())
}

func TestUpdateOwnership(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	alice := w.user("alice", rbac.Author)
	bob := w.user("bob", rbac.Author)
	admin := w.user("root", rbac.SuperAdmin)
	post, err := w.svc.Create(ctx, alice, posts.NewPost{Title: "T", Body: "B"})
	require.NoError(t, err)

	_, err = w.svc.Update(ctx, bob, post.ID, posts.PostUpdate{Title: str("Hijacked")})
	assert.ErrorIs(t, err, shared.ErrNotAuthorized)
	stored, _ := w.posts.Snapshot(post.ID)
	assert.Equal(t, "T", stored.Title)

	updated, err := w.svc.Update(ctx, alice, post.ID, posts.PostUpdate{Title: str("T2")})
	require.NoError(t, err)
	assert.Equal(t, "T2", updated.Title)
	assert.Equal(t, "B", updated.Body)
	assert.Equal(t, alice.ID, updated.UserID)

	updated, err = w.svc.Update(ctx, admin, post.ID, posts.PostUpdate{Body: str("B3")})
	require.NoError(t, err)
	assert.Equal(t, "B3", updated.Body)
	assert.Equal(t, alice.ID, updated.UserID)

	_, err = w.svc.Update(ctx, alice, post.ID, posts.PostUpdate{Title: str(" ")})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestMissingPostIsNotFoundBeforeOwnership(t *testing.T) {
	w := newWorld()
	bob := w.user("bob", rbac.Author)

	_, err := w.svc.Update(context.Background(), bob, "missing", posts.PostUpdate{Title: str("x")})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	_, err = w.svc.Delete(context.Background(), bob, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDeleteOwnership(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	alice := w.user("alice", rbac.Author)
	bob := w.user("bob", rbac.Author)
	admin := w.user("root", rbac.SuperAdmin)
	first, err := w.svc.Create(ctx, alice, posts.NewPost{Title: "T", Body: "B"})
	require.NoError(t, err)
	second, err := w.svc.Create(ctx, alice, posts.NewPost{Title: "T", Body: "B"})
	require.NoError(t, err)

	_, err = w.svc.Delete(ctx, bob, first.ID)
	assert.ErrorIs(t, err, shared.ErrNotAuthorized)
	assert.Equal(t, 2, w.posts.Len())

	deleted, err := w.svc.Delete(ctx, alice, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, deleted.ID)

	_, err = w.svc.Delete(ctx, admin, second.ID)
	require.NoError(t, err)
	assert.Zero(t, w.posts.Len())
}

func TestListsJoinAuthor(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	alice := w.user("alice", rbac.Author)
	bob := w.user("bob", rbac.Author)
	_, err := w.svc.Create(ctx, alice, posts.NewPost{Title: "A", Body: "B"})
	require.NoError(t, err)
	_, err = w.svc.Create(ctx, bob, posts.NewPost{Title: "C", Body: "D"})
	require.NoError(t, err)

	all, err := w.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, v := range all {
		assert.NotEmpty(t, v.User.Name)
	}

	mine, err := w.svc.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, posts.Author{ID: "alice", Name: "Name alice", Username: "alice"}, mine[0].User)

	none, err := w.svc.ListByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}
