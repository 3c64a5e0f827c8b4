package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quill-blog/quill/internal/shared"
)

func TestParseRoleFoldsCase(t *testing.T) {
	for input, want := range map[string]Role{
		"subscriber":    Subscriber,
		"Author":        Author,
		" SUPER_ADMIN ": SuperAdmin,
	} {
		got, err := ParseRole(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("editor")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestSetMembership(t *testing.T) {
	assert.True(t, Publishers.Allows(Author))
	assert.True(t, Publishers.Allows(SuperAdmin))
	assert.False(t, Publishers.Allows(Subscriber))
	assert.True(t, AdminOnly.Allows(SuperAdmin))
	assert.False(t, AdminOnly.Allows(Author))
	assert.Equal(t, 3, Members.Len())
	assert.Equal(t, []Role{Author, Subscriber}, Listable.Roles())

	var zero Set
	for _, r := range []Role{Subscriber, Author, SuperAdmin} {
		assert.False(t, zero.Allows(r))
		assert.False(t, NewSet().Allows(r))
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, Author.Valid())
	assert.False(t, Role("Author").Valid())
	assert.False(t, Role("").Valid())
}
