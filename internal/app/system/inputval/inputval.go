// Package inputval validates submitted forms with struct tags.
//
//	type detailForm struct {
//	    FullName string `form:"full_name" validate:"required,max=200"`
//	}
//	if errs := inputval.Check(f); errs != nil { ... }
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their form name.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return v
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// Error joins the messages.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for f, m := range fe {
		parts = append(parts, f+": "+m)
	}
	return strings.Join(parts, "; ")
}

// First returns one message for a single-line notification.
func (fe FieldErrors) First() string {
	for _, m := range fe {
		return m
	}
	return ""
}

// Check validates s and returns nil or the per-field messages.
func Check(s any) FieldErrors {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return FieldErrors{"_": err.Error()}
	}
	out := make(FieldErrors, len(ves))
	for _, fe := range ves {
		out[fe.Field()] = message(fe)
	}
	return out
}

// IsValidEmail reports whether s is a syntactically valid address.
func IsValidEmail(s string) bool {
	return get().Var(strings.TrimSpace(s), "required,email") == nil
}

func message(fe validator.FieldError) string {
	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Please enter %s.", label)
	case "email":
		return "Please enter a valid email address."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", capitalize(label), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s.", capitalize(label), fe.Param())
	}
	return fmt.Sprintf("%s is not valid.", capitalize(label))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
