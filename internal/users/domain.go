package users

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
)

// Creation dates read like "Sunday, March 1st 2020, 3:04:05 pm". The day
// carries an ordinal suffix, so the date is assembled from two layouts.
const (
	dateLayoutHead = "Monday, January "
	dateLayoutTail = " 2006, 3:04:05 pm"
)

const (
	// MaxNameLength bounds the display name after trimming.
	MaxNameLength = 30
	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 6
)

// Conflict errors carry the field that collided.
var (
	ErrEmailTaken    = fmt.Errorf("%w: email already exists", shared.ErrConflict)
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", shared.ErrConflict)
)

// User represents a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         rbac.Role `json:"role"`
	Date         string    `json:"date"`
}

// SubjectRole implements rbac.Subject.
func (u *User) SubjectRole() rbac.Role {
	return u.Role
}

// NewUser carries the fields needed to create an account.
type NewUser struct {
	Username string
	Name     string
	Email    string
	Password string
	Role     rbac.Role
}

// ProfileUpdate lists the fields an account update may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	Username *string
	Name     *string
	Email    *string
}

// Empty reports whether no field is set.
func (p ProfileUpdate) Empty() bool {
	return p.Username == nil && p.Name == nil && p.Email == nil
}

func (p ProfileUpdate) normalize() (ProfileUpdate, error) {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" || len([]rune(name)) > MaxNameLength {
			return p, fmt.Errorf("users: name: %w", shared.ErrValidation)
		}
		p.Name = &name
	}
	if p.Username != nil && strings.TrimSpace(*p.Username) == "" {
		return p, fmt.Errorf("users: username: %w", shared.ErrValidation)
	}
	return p, nil
}

func creationDate(now time.Time) string {
	return now.Format(dateLayoutHead) + ordinal(now.Day()) + now.Format(dateLayoutTail)
}

func ordinal(day int) string {
	suffix := "th"
	switch {
	case day%100 >= 11 && day%100 <= 13:
	case day%10 == 1:
		suffix = "st"
	case day%10 == 2:
		suffix = "nd"
	case day%10 == 3:
		suffix = "rd"
	}
	return strconv.Itoa(day) + suffix
}

// IsConflict reports whether err is a username or email collision.
func IsConflict(err error) bool {
	return errors.Is(err, shared.ErrConflict)
}
