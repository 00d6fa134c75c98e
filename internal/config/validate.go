package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"jordanella.com/autojump-go/internal/cv"
	"jordanella.com/autojump-go/internal/logging"
)

// ErrInvalidConfig is wrapped by every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("ini"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	mustRegister(v, "odd", func(fl validator.FieldLevel) bool {
		return fl.Field().Int()%2 == 1
	})
	mustRegister(v, "runpolicy", func(fl validator.FieldLevel) bool {
		_, err := cv.ParseRunPolicy(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "loglevel", func(fl validator.FieldLevel) bool {
		_, err := logging.ParseLevel(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "pressarea", func(fl validator.FieldLevel) bool {
		_, err := ParseArea(fl.Field().String())
		return err == nil
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// Validate checks every field and reports all violations at once
func Validate(config *Config) error {
	err := validate.Struct(config)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "odd":
		return fmt.Sprintf("%s must be odd, got %v", fe.Field(), fe.Value())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "runpolicy", "loglevel", "pressarea":
		return fmt.Sprintf("%s has invalid value %q", fe.Field(), fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Sprintf("%s failed %s (got %v)", fe.Field(), fe.Tag(), fe.Value())
	}
}
