package users

import (
	"github.com/go-playground/validator/v10"

	"github.com/quill-blog/quill/internal/platform/httpx"
	"github.com/quill-blog/quill/internal/rbac"
)

// NewValidator returns a validator that understands the "role" tag.
func NewValidator() *httpx.Validator {
	v := httpx.NewValidator()
	v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := rbac.ParseRole(fl.Field().String())
		return err == nil
	})
	return v
}
