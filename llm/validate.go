package llm

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance used across the package.
var validate = validator.New()

// Validate checks s against its `validate` struct tags.
//
// Example:
//
//	type Options struct {
//	    Tone string `validate:"omitempty,oneof=casual formal"`
//	}
//
//	if err := Validate(&Options{Tone: "casual"}); err != nil {
//	    log.Fatal(err)
//	}
func Validate(s any) error {
	return validate.Struct(s)
}

// RegisterCustomValidation adds a validation tag usable by Validate.
func RegisterCustomValidation(tag string, fn validator.Func) error {
	return validate.RegisterValidation(tag, fn)
}

// validateEndpoint rejects anything that is not an absolute http(s) URL.
func validateEndpoint(url string) error {
	if err := validate.Var(url, "required,http_url"); err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", url, err)
	}
	return nil
}
