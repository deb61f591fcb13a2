package waveform

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a rejected value. The target keeps its old state.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a lookup by name that matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrUnregisteredType marks a serialized type tag with no known implementation.
	ErrUnregisteredType = errors.New("unregistered type")
)

// ValidationError describes a rejected value.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError names the missing entry and where it was looked up.
type NotFoundError struct {
	Kind string
	Name string
	In   string
}

func (e *NotFoundError) Error() string {
	if e.In == "" {
		return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
	}
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, e.In)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// UnregisteredTypeError names a type tag that could not be resolved.
type UnregisteredTypeError struct {
	Kind string
	Tag  string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("%s type %q is not registered", e.Kind, e.Tag)
}

func (e *UnregisteredTypeError) Unwrap() error {
	return ErrUnregisteredType
}
