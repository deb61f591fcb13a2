// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequence

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/pulseduck/internal/pulse"
)

var (
	ErrValidation       = pulse.ErrValidation
	ErrNotFound         = pulse.ErrNotFound
	ErrUnregisteredType = pulse.ErrUnregisteredType

	// ErrSchemaMismatch marks a stored parameter that was skipped because its
	// options do not fit the registered parameter kind.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrPartialLoad marks a load that succeeded with some parameters skipped.
	ErrPartialLoad = errors.New("partial load")
	// ErrInvalidDocument marks a document rejected by the persisted-format schema.
	ErrInvalidDocument = errors.New("invalid sequence document")
)

// SchemaMismatchError names the skipped parameter and the event it was in.
type SchemaMismatchError struct {
	Event     string
	Parameter string
	Err       error
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("event %q: parameter %q skipped: %v", e.Event, e.Parameter, e.Err)
}

func (e *SchemaMismatchError) Unwrap() []error {
	return []error{ErrSchemaMismatch, e.Err}
}

// PartialLoadError lists every parameter a Load had to skip. The sequence
// returned alongside it is usable.
type PartialLoadError struct {
	Sequence   string
	Mismatches []*SchemaMismatchError
}

func (e *PartialLoadError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.Error()
	}
	return fmt.Sprintf("sequence %q loaded partially: %s", e.Sequence, strings.Join(parts, "; "))
}

func (e *PartialLoadError) Unwrap() []error {
	errs := make([]error, 0, len(e.Mismatches)+1)
	errs = append(errs, ErrPartialLoad)
	for _, m := range e.Mismatches {
		errs = append(errs, m)
	}
	return errs
}
