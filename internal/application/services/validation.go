package services

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/taskmaster/desk/internal/domain/entities"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator. Field names in errors use the json
// tag so CLI and API users see the names they typed.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks a request struct the same way the services do
func Validate(req interface{}) error {
	return validateRequest(req)
}

// validateRequest runs struct validation and converts failures into a
// ValidationError.
func validateRequest(req interface{}) error {
	err := Validator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &entities.ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, entities.FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return out
}
