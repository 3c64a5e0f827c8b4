package users

import (
	"strings"

	"github.com/quill-blog/quill/internal/rbac"
)

// CreateRequest is the body accepted by registration and admin user creation.
type CreateRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name" validate:"required,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"min=6"`
	Role     string `json:"role" validate:"omitempty,role"`
}

// CreateMessages are the client-facing texts for CreateRequest fields.
var CreateMessages = map[string]string{
	"username": "Username is required",
	"name":     "Name is required and must be at most 30 characters",
	"email":    "Please include a valid email",
	"password": "Please enter a password with 6 or more characters",
	"role":     "Role is not valid",
}

// Normalize trims whitespace the way the store expects it.
func (r *CreateRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// NewUser converts the request. Role must already be validated.
func (r CreateRequest) NewUser() NewUser {
	role, _ := rbac.ParseRole(r.Role)
	return NewUser{
		Username: r.Username,
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     role,
	}
}

// ProfileRequest is the body accepted by self-service and admin updates.
type ProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=30"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

// ProfileMessages are the client-facing texts for ProfileRequest fields.
var ProfileMessages = map[string]string{
	"username": "Username cannot be empty",
	"name":     "Name must be between 1 and 30 characters",
	"email":    "Please include a valid email",
}

// Update converts the request into a ProfileUpdate.
func (r ProfileRequest) Update() ProfileUpdate {
	upd := ProfileUpdate{Username: r.Username, Email: r.Email}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		upd.Name = &name
	}
	return upd
}
