// Package validation checks request payloads against their struct tags.
//
// Rules live in `validate` tags. The client-facing message of a field lives in
// its `msg` tag, so a payload reads as its own rulebook:
//
//	Email string `json:"email" validate:"email" msg:"Please include a valid email"`
//
// Fields are reported in declaration order with their JSON name as param.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tazhibayda/devconnector/internal/apperror"
	"github.com/tazhibayda/devconnector/internal/domain"
)

const bodyLocation = "body"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// skills: a comma separated list with at least one non-blank entry
	_ = v.RegisterValidation("skills", func(fl validator.FieldLevel) bool {
		return domain.ParseSkills(fl.Field().String()) != nil
	})
	return v
}

// Struct validates payload, which must be a pointer to a struct. It returns
// nil when every rule holds, otherwise an apperror of kind Validation.
func Struct(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apperror.Server("validate payload", err)
	}

	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	fields := make([]apperror.FieldError, 0, len(ves))
	seen := make(map[string]bool, len(ves))
	for _, fe := range ves {
		if seen[fe.Field()] {
			continue
		}
		seen[fe.Field()] = true
		fields = append(fields, apperror.FieldError{
			Msg:      message(t, fe),
			Param:    fe.Field(),
			Location: bodyLocation,
		})
	}
	return apperror.Validation(fields)
}

func message(t reflect.Type, fe validator.FieldError) string {
	if sf, ok := t.FieldByName(fe.StructField()); ok {
		if m := sf.Tag.Get("msg"); m != "" {
			return m
		}
	}
	return "Invalid value"
}
