// Package validate checks request structs against their `validate` tags
// using go-playground/validator and reports failures keyed by JSON field
// name, ready for a 422 envelope.
//
//	type ConfirmSaleInput struct {
//	    UnitTag      string `json:"unitTag"      validate:"required,unit_tag"`
//	    CustomerName string `json:"customerName" validate:"required,max=255"`
//	    Email        string `json:"customerEmail" validate:"omitempty,email"`
//	}
//
// Besides the built-in rules, notblank rejects whitespace-only strings and
// two storefront rules are registered:
//
//	unit_tag      6 characters of A-Z or 0-9 (case-insensitive)
//	unit_status   available | coming_soon
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	once sync.Once
	v    *validator.Validate

	tagRE = regexp.MustCompile(`^[A-Za-z0-9]{6}$`)
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())

		// Report errors under the JSON name the client actually sent.
		v.RegisterTagNameFunc(jsonFieldName)

		_ = v.RegisterValidation("notblank", validators.NotBlank)
		_ = v.RegisterValidation("unit_tag", func(fl validator.FieldLevel) bool {
			return tagRE.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("unit_status", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "available", "coming_soon":
				return true
			}
			return false
		})
	})
	return v
}

// Struct validates s and returns field → message. An empty map means valid.
func Struct(s interface{}) map[string]string {
	errs := make(map[string]string)

	err := engine().Struct(s)
	if err == nil {
		return errs
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: s is not a struct.
		return errs
	}

	for _, fe := range fieldErrs {
		name := fieldPath(fe)
		if _, seen := errs[name]; seen {
			continue // first failing rule per field
		}
		errs[name] = message(name, fe)
	}
	return errs
}

// Var validates a single value against a rule string, e.g. Var(email, "email").
func Var(field string, value interface{}, rules string) map[string]string {
	errs := make(map[string]string)
	if err := engine().Var(value, rules); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			errs[field] = message(field, fieldErrs[0])
		}
	}
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// fieldPath drops the root struct name: "Input.media.images[0]" → "media.images[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(field string, fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url", "http_url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "min":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		}
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		if isNumber(fe.Kind()) {
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		}
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, param)
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid (allowed: %s).", field, strings.ReplaceAll(param, " ", ", "))
	case "unit_tag":
		return fmt.Sprintf("The %s must be 6 letters or digits.", field)
	case "unit_status":
		return fmt.Sprintf("The selected %s is invalid (allowed: available, coming_soon).", field)
	case "nefield", "necsfield":
		return fmt.Sprintf("The %s must differ from %s.", field, param)
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func jsonFieldName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" {
		return f.Name
	}
	name := strings.SplitN(tag, ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
