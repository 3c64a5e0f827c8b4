package rbac

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/quill-blog/quill/internal/shared"
)

// Role is an access tier attached to a user.
type Role string

// Known roles. Lowercase is the canonical casing.
const (
	Subscriber Role = "subscriber"
	Author     Role = "author"
	SuperAdmin Role = "super_admin"
)

var fold = cases.Fold()

// ParseRole resolves s to a known role regardless of casing.
func ParseRole(s string) (Role, error) {
	switch Role(fold.String(strings.TrimSpace(s))) {
	case Subscriber:
		return Subscriber, nil
	case Author:
		return Author, nil
	case SuperAdmin:
		return SuperAdmin, nil
	}
	return "", fmt.Errorf("rbac: unknown role %q: %w", s, shared.ErrValidation)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case Subscriber, Author, SuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Set is the explicit list of roles a route admits. The zero Set admits
// nobody.
type Set struct {
	roles map[Role]struct{}
}

// NewSet builds a Set from roles.
func NewSet(roles ...Role) Set {
	m := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		m[r] = struct{}{}
	}
	return Set{roles: m}
}

// Allows reports whether r belongs to the set.
func (s Set) Allows(r Role) bool {
	_, ok := s.roles[r]
	return ok
}

// Len returns the number of roles in the set.
func (s Set) Len() int { return len(s.roles) }

// Roles returns the members sorted by name.
func (s Set) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	for r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Common route policies.
var (
	AdminOnly  = NewSet(SuperAdmin)
	Publishers = NewSet(Author, SuperAdmin)
	Members    = NewSet(Subscriber, Author, SuperAdmin)
	// Listable are the roles shown in the admin user listing.
	Listable = NewSet(Subscriber, Author)
)
