package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sahilchouksey/edupool/model"
)

var (
	// EmailRegex is a simple email validation regex
	EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance with the application's custom tags
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("program_level", func(fl validator.FieldLevel) bool {
		_, err := model.ParseProgramLevel(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegex.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		y := fl.Field().Int()
		return y == 0 || (y >= 1000 && y <= 2100)
	})

	return &Validator{
		validate: v,
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// Message validates s and returns the message to show the user, or "" when s is valid.
// A field's `msg` tag overrides the generated message.
func (v *Validator) Message(s interface{}) string {
	err := v.validate.Struct(s)
	if err == nil {
		return ""
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "Invalid data provided."
	}

	first := validationErrs[0]
	if msg := fieldTag(s, first.StructField(), "msg"); msg != "" {
		return msg
	}
	return formatFieldError(first)
}

func fieldTag(s interface{}, field, tag string) string {
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return ""
	}
	return f.Tag.Get(tag)
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		for _, e := range validationErrs {
			errs[strings.ToLower(e.Field())] = formatFieldError(e)
		}
	}

	return errs
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", e.Field())
	case "email":
		return "Please enter a valid email address."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", e.Field(), e.Param())
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s.", e.Field(), e.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL.", e.Field())
	case "program_level":
		return "Program level must be one of Diploma, Bachelor, Master or PhD."
	case "eqfield":
		return fmt.Sprintf("%s does not match.", e.Field())
	default:
		return fmt.Sprintf("%s is invalid.", e.Field())
	}
}

// ValidateEmail checks if an email is valid
func ValidateEmail(email string) bool {
	if len(email) < 3 || len(email) > 254 {
		return false
	}
	return EmailRegex.MatchString(email)
}
