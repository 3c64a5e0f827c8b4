package rbac

import "context"

// Subject is the authenticated caller as seen by the role policy.
type Subject interface {
	SubjectRole() Role
}

type subjectContextKey struct{}

// ContextWithSubject stores the authenticated caller in context.
func ContextWithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, s)
}

// SubjectFromContext extracts the authenticated caller from context.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectContextKey{}).(Subject)
	return s, ok && s != nil
}
