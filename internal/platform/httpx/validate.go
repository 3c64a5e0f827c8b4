package httpx

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps validator.Validate and reports fields by their JSON name.
type Validator struct {
	validate *validator.Validate
}

// NewValidator constructs a Validator.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Check validates target. messages maps a JSON field name to the text shown
// for any rule that field fails; unlisted fields fall back to the validator
// message. It returns nil when target is valid.
func (v *Validator) Check(target any, messages map[string]string) []FieldError {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Msg: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()]
		if !ok {
			msg = fe.Error()
		}
		out = append(out, FieldError{Param: fe.Field(), Msg: msg})
	}
	return out
}

// RegisterValidation adds a custom validation tag.
func (v *Validator) RegisterValidation(tag string, fn validator.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic("httpx: register validation " + tag + ": " + err.Error())
	}
}
