package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator. Field names in errors are the json names.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Strings must carry something besides whitespace to satisfy "required".
		validate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
			return strings.TrimSpace(v.String())
		}, "")
	})
	return validate
}

// FieldError is a single failed rule on a json field.
type FieldError struct {
	Field string
	Tag   string
}

// Struct validates s and returns the failed fields in declaration order.
// A non-validation error (e.g. s is not a struct) is returned as err.
func Struct(s interface{}) ([]FieldError, error) {
	err := Validator().Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return out, nil
}

// HasTag reports whether any failure in errs is for the given rule.
func HasTag(errs []FieldError, tag string) bool {
	for _, e := range errs {
		if e.Tag == tag {
			return true
		}
	}
	return false
}
