// Package validation evaluates declarative request rules and collects every failing field
// into a single error keyed by JSON field name.
//
// Rules live on the request structs as `validate` tags. Each entity pairs its struct with a
// Messages table so the wording of each failure is defined next to the rule that produces it:
//
//	var spotMessages = validation.Messages{
//	    "name": {"required": "Name is required", "max": "Name must be less than 50 characters"},
//	}
//
//	if err := validation.Check(&req, spotMessages); err != nil {
//	    return err // *validation.Error
//	}
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Messages maps a JSON field name to the message used for each failing tag.
// The empty tag is the field's fallback message.
type Messages map[string]map[string]string

// Error carries every field-level failure of one request.
type Error struct {
	Fields map[string]string
}

func New() *Error {
	return &Error{Fields: map[string]string{}}
}

func (e *Error) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed, so callers can return it directly as an error.
func (e *Error) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *Error) Error() string {
	if e.Empty() {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Get returns the shared validator. Field names are reported by their json tag.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})

		_ = validate.RegisterValidation("notemail", func(fl validator.FieldLevel) bool {
			_, err := mail.ParseAddress(fl.Field().String())
			return err != nil
		})

		// maxbytes bounds the encoded length, which max does not for multi-byte strings.
		_ = validate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		})
	})

	return validate
}

// Check validates s and returns a *Error holding every failing field, or nil.
func Check(s interface{}, messages Messages) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := New()
	for _, fe := range fieldErrs {
		out.Add(fe.Field(), messageFor(fe, messages))
	}
	return out
}

func messageFor(fe validator.FieldError, messages Messages) string {
	if byTag, ok := messages[fe.Field()]; ok {
		if msg, ok := byTag[fe.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag[""]; ok {
			return msg
		}
	}
	return defaultMessage(fe)
}

func defaultMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
