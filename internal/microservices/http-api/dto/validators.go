package dto

import (
	"reflect"
	"regexp"
	"strings"

	"yamdb/internal/microservices/http-api/models"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
)

// RegisterValidators adds the binding tags used by the request DTOs and
// reports fields by their JSON names.
func RegisterValidators(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.ValidRole(fl.Field().String())
	})
}
