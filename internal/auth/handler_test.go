package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/quill/internal/auth"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/testing/fakes"
	"github.com/quill-blog/quill/internal/users"
)

type loginCounter map[string]int

func (c loginCounter) ObserveLogin(outcome string) { c[outcome]++ }

func TestRegisterEndpoint(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice", "name": " Alice ", "email": "alice@example.com", "password": "secret1", "role": "Author",
	})

	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	token := decode[auth.TokenResponse](t, rr).Token
	id, err := h.tokens.Verify(token)
	require.NoError(t, err)
	stored, err := h.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, rbac.Author, stored.Role)
	assert.Equal(t, "Alice", stored.Name)
}

func TestRegisterEndpointValidation(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "", "name": "Alice", "email": "not-an-email", "password": "123",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	params := map[string]string{}
	for _, e := range decode[errorsBody](t, rr).Errors {
		params[e.Param] = e.Msg
	}
	assert.Contains(t, params, "username")
	assert.Contains(t, params, "email")
	assert.Equal(t, "Please enter a password with 6 or more characters", params["password"])
	assert.Zero(t, h.store.Len())
}

func TestRegisterEndpointRejectsSuperAdminRole(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "root", "name": "Root", "email": "root@example.com", "password": "secret1", "role": "super_admin",
	})

	require.Equal(t, http.StatusBadRequest, rr.Code)
	errs := decode[errorsBody](t, rr).Errors
	require.Len(t, errs, 1)
	assert.Equal(t, "role", errs[0].Param)
	assert.Zero(t, h.store.Len())
}

func TestRegisterEndpointConflicts(t *testing.T) {
	h := newHarness(t, nil)
	h.seed(t, "alice", "alice@example.com", "secret1", rbac.Subscriber)

	rr := h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "other", "name": "Other", "email": "alice@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", decode[msgBody](t, rr).Msg)

	rr = h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice", "name": "Other", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Username already exists", decode[msgBody](t, rr).Msg)
}

func TestLoginEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	counter := loginCounter{}
	h.handler.ObserveLogins(counter)
	alice := h.seed(t, "alice", "alice@example.com", "secret1", rbac.Author)

	rr := h.do(t, http.MethodPost, "/api/auth", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rr.Code)
	id, err := h.tokens.Verify(decode[auth.TokenResponse](t, rr).Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, id)

	rr = h.do(t, http.MethodPost, "/api/auth", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid credentials", decode[msgBody](t, rr).Msg)

	rr = h.do(t, http.MethodPost, "/api/auth", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid credentials", decode[msgBody](t, rr).Msg)

	assert.Equal(t, loginCounter{"success": 1, "invalid": 2}, counter)
}

func TestLoginEndpointThrottled(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := newHarness(t, auth.NewThrottle(client, discardLogger(), 1, time.Minute))
	h.seed(t, "alice", "alice@example.com", "secret1", rbac.Author)

	rr := h.do(t, http.MethodPost, "/api/auth", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = h.do(t, http.MethodPost, "/api/auth", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Too many login attempts", decode[msgBody](t, rr).Msg)
}

func TestCurrentUserEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	alice := h.seed(t, "alice", "alice@example.com", "secret1", rbac.Author)

	rr := h.do(t, http.MethodGet, "/api/auth", h.token(t, alice.ID), nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")
	assert.NotContains(t, rr.Body.String(), alice.PasswordHash)
	got := decode[users.User](t, rr)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, rbac.Author, got.Role)
}

func TestCurrentUserEndpointRequiresToken(t *testing.T) {
	h := newHarness(t, nil)

	rr := h.do(t, http.MethodGet, "/api/auth", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUpdateAccountEndpoint(t *testing.T) {
	h := newHarness(t, nil)
	alice := h.seed(t, "alice", "alice@example.com", "secret1", rbac.Author)
	h.seed(t, "bob", "bob@example.com", "secret1", rbac.Subscriber)
	token := h.token(t, alice.ID)

	rr := h.do(t, http.MethodPut, "/api/auth/updateaccount", token, map[string]string{
		"username": "alice2", "role": "super_admin", "password": "ignored",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got := decode[users.User](t, rr)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, rbac.Author, got.Role)

	stored, err := h.store.FindByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.True(t, h.hasher.Compare(stored.PasswordHash, "secret1"))

	rr = h.do(t, http.MethodPut, "/api/auth/updateaccount", token, map[string]string{"email": "bob@example.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Failed to update user details", decode[msgBody](t, rr).Msg)
}

type missedLookups struct {
	*fakes.Users
}

func (missedLookups) FindByEmail(context.Context, string) (*users.User, error) {
	return nil, shared.ErrNotFound
}

func (missedLookups) FindByUsername(context.Context, string) (*users.User, error) {
	return nil, shared.ErrNotFound
}

func TestRegisterEndpointConflictFromStore(t *testing.T) {
	h := newHarness(t, nil)
	h.accounts = users.NewService(missedLookups{Users: h.store}, h.hasher)
	h.service = auth.NewService(h.accounts, h.tokens, h.hasher, nil)
	h.handler = auth.NewHandler(discardLogger(), h.service, h.gate)
	r := chi.NewRouter()
	r.Route("/api/users", h.handler.MountRegister)
	h.router = r

	rr := h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice", "name": "Alice", "email": "alice@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "other", "name": "Other", "email": "alice@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "User already exists", decode[msgBody](t, rr).Msg)

	rr = h.do(t, http.MethodPost, "/api/users", "", map[string]string{
		"username": "alice", "name": "Other", "email": "other@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Username already exists", decode[msgBody](t, rr).Msg)
	assert.Equal(t, 1, h.store.Len())
}
