package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/quill-blog/quill/internal/platform/httpx"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
	"github.com/quill-blog/quill/internal/users"
)

// UserLookup resolves a token's user identifier to a stored user.
type UserLookup interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

// Gate authenticates bearer tokens and enforces route role policies.
type Gate struct {
	logger *slog.Logger
	tokens Tokens
	users  UserLookup
	roles  rbac.Middleware
}

// NewGate builds a Gate.
func NewGate(logger *slog.Logger, tokens Tokens, lookup UserLookup) *Gate {
	return &Gate{logger: logger, tokens: tokens, users: lookup, roles: rbac.Middleware{Logger: logger}}
}

// Authenticate requires "Authorization: Bearer <token>". A missing header
// answers 401 and a token that fails verification answers 403. When the
// token's user no longer exists the request continues without a user and
// downstream guards answer 401.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			httpx.Message(w, http.StatusUnauthorized, httpx.MsgUnauthenticated)
			return
		}
		raw := bearerToken(header)
		if raw == "" {
			httpx.Message(w, http.StatusForbidden, httpx.MsgInvalidToken)
			return
		}

		userID, err := g.tokens.Verify(raw)
		if err != nil {
			g.logger.Debug("token rejected", slog.Any("error", err))
			httpx.Message(w, http.StatusForbidden, httpx.MsgInvalidToken)
			return
		}

		ctx := r.Context()
		user, err := g.users.Get(ctx, userID)
		switch {
		case err == nil:
			ctx = users.ContextWithUser(ctx, user)
		case errors.Is(err, shared.ErrNotFound):
			g.logger.Warn("token for missing user", slog.String("user_id", userID))
		default:
			g.logger.Error("resolve token user", slog.Any("error", err))
			httpx.RespondError(w, err, "")
			return
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize admits callers whose role is in allowed. An empty set admits
// nobody.
func (g *Gate) Authorize(allowed rbac.Set) func(http.Handler) http.Handler {
	return g.roles.Require(allowed)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

var _ rbac.Gate = (*Gate)(nil)
