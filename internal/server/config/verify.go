package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/jubilee-go/internal/core/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report option keys, not Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Verify checks the ranges and enumerations of a resolved Config.
func Verify(cfg *Config) error {
	if cfg == nil {
		return domain.ErrValidation.WithDetails("config is nil")
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.ErrValidation.WithCause(err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, describe(fe))
	}
	return domain.ErrValidation.WithDetails(strings.Join(msgs, "; ")).WithCause(err)
}

func describe(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("too low (< %s): %s=%v", fe.Param(), key, fe.Value())
	case "max":
		return fmt.Sprintf("too high (> %s): %s=%v", fe.Param(), key, fe.Value())
	case "required":
		return fmt.Sprintf("required: %s", key)
	case "oneof":
		return fmt.Sprintf("not one of [%s]: %s=%v", fe.Param(), key, fe.Value())
	default:
		return fmt.Sprintf("failed %s: %s=%v", fe.Tag(), key, fe.Value())
	}
}
