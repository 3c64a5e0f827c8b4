package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/quill/internal/auth"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/testing/fakes"
	"github.com/quill-blog/quill/internal/users"
	_ "github.com/quill-blog/quill/testing"
)

type harness struct {
	store    *fakes.Users
	accounts *users.Service
	hasher   *auth.BcryptHasher
	tokens   *auth.TokenIssuer
	service  *auth.Service
	gate     *auth.Gate
	handler  *auth.Handler
	router   chi.Router
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHarness(t *testing.T, throttle *auth.Throttle) *harness {
	t.Helper()
	h := &harness{store: fakes.NewUsers()}
	h.hasher = auth.NewBcryptHasher(4)
	h.accounts = users.NewService(h.store, h.hasher)
	h.tokens = auth.NewTokenIssuer("secret", "quill", time.Hour)
	h.service = auth.NewService(h.accounts, h.tokens, h.hasher, throttle)
	h.gate = auth.NewGate(discardLogger(), h.tokens, h.accounts)
	h.handler = auth.NewHandler(discardLogger(), h.service, h.gate)

	r := chi.NewRouter()
	r.Route("/api/users", h.handler.MountRegister)
	r.Route("/api/auth", h.handler.MountRoutes)
	h.router = r
	return h
}

func (h *harness) seed(t *testing.T, username, email, password string, role rbac.Role) *users.User {
	t.Helper()
	u, err := h.accounts.Create(context.Background(), users.NewUser{
		Username: username,
		Name:     strings.ToUpper(username[:1]) + username[1:],
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func (h *harness) token(t *testing.T, userID string) string {
	t.Helper()
	raw, err := h.tokens.Issue(userID)
	require.NoError(t, err)
	return raw
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(payload))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

type msgBody struct {
	Msg string `json:"msg"`
}

type errorsBody struct {
	Errors []struct {
		Param string `json:"param"`
		Msg   string `json:"msg"`
	} `json:"errors"`
}
