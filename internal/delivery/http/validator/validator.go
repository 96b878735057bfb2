// Package validator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound requests.
package validator

import (
	playground "github.com/go-playground/validator/v10"
)

// Validator wraps a single shared validate instance; the instance caches
// struct metadata and is safe for concurrent use.
type Validator struct {
	validate *playground.Validate
}

// New returns a Validator ready to be installed on an echo server.
func New() *Validator {
	return &Validator{validate: playground.New()}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
