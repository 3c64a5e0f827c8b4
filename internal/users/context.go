package users

import (
	"context"

	"github.com/quill-blog/quill/internal/rbac"
)

// ContextWithUser stores the authenticated user in context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return rbac.ContextWithSubject(ctx, u)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (*User, bool) {
	s, ok := rbac.SubjectFromContext(ctx)
	if !ok {
		return nil, false
	}
	u, ok := s.(*User)
	return u, ok && u != nil
}
