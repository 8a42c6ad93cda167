// Package validation checks request structs and turns the first failed
// rule into a message fit for the person filling the form.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/wadjakorntonsri/artistus/pkg/core/domain"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*[a-z0-9]$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	gradientPattern = regexp.MustCompile(`^(linear|radial)-gradient\([a-zA-Z0-9#%.,\s-]+\)$`)
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("notreserved", func(fl validator.FieldLevel) bool {
			return !domain.IsReservedUsername(fl.Field().String())
		})
		_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
			return hexColorPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("gradient", func(fl validator.FieldLevel) bool {
			return gradientPattern.MatchString(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// Struct validates s and returns a *domain.ValidationError describing the
// first violation, or nil.
func Struct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return domain.Invalid(Message(fieldErrs[0]))
	}
	return domain.Invalid(err.Error())
}

// Message renders one field error.
func Message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "url":
		return "Invalid URL"
	case "uuid":
		return "Invalid " + strings.ToLower(label)
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at least %s items", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Maximum %s %s", fe.Param(), strings.ToLower(label))
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	case "username":
		return "Username must be lowercase alphanumeric with hyphens, cannot start or end with a hyphen"
	case "notreserved":
		return "This username is reserved"
	case "hexcolor6":
		return label + " must be a hex color like #1a2b3c"
	case "gradient":
		return label + " must be a CSS linear or radial gradient"
	}
	return fmt.Sprintf("%s is invalid", label)
}
