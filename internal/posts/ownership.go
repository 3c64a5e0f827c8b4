package posts

import (
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/users"
)

// CanModify reports whether user may change or delete post: only its owner
// or a super_admin may.
func CanModify(post *Post, user *users.User) bool {
	if post == nil || user == nil {
		return false
	}
	return post.UserID == user.ID || user.Role == rbac.SuperAdmin
}
