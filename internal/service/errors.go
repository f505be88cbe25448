package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already confirmed")
)

// FieldError names one missing or malformed request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError is returned before anything is persisted when a request
// lacks a required field or carries an out-of-range value.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s (%s)", f.Field, f.Rule)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}

func newValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// validateStruct runs the struct's validate tags and converts failures into
// a *ValidationError keyed by JSON field path.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate request: %w", err)
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{Field: jsonPath(fe.Namespace()), Rule: fe.Tag()}
	}
	return newValidationError(fields...)
}

// jsonPath drops the root struct name from a validator namespace such as
// "ConfirmOrderRequest.package.price".
func jsonPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// msisdnPattern is an international phone number, country code first, with
// an optional leading plus: 6281234567890 or +6281234567890.
var msisdnPattern = regexp.MustCompile(`^\+?[1-9][0-9]{7,14}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("msisdn", func(fl validator.FieldLevel) bool {
		return msisdnPattern.MatchString(fl.Field().String())
	})
	// email_list accepts one address or several separated by commas
	_ = v.RegisterValidation("email_list", func(fl validator.FieldLevel) bool {
		for _, addr := range strings.Split(fl.Field().String(), ",") {
			if v.Var(strings.TrimSpace(addr), "required,email") != nil {
				return false
			}
		}
		return true
	})
	return v
}

// RequestValidator checks request DTOs against their validate tags and
// reports failures as *ValidationError. It satisfies echo.Validator.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: newValidator()}
}

func (v *RequestValidator) Validate(i interface{}) error {
	return validateStruct(v.validate, i)
}
