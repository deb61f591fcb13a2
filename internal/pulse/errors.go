// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// The error taxonomy is shared with the waveform package so that callers
// can match any layer's failures with one set of sentinels.
var (
	ErrValidation       = waveform.ErrValidation
	ErrNotFound         = waveform.ErrNotFound
	ErrUnregisteredType = waveform.ErrUnregisteredType

	// ErrLayoutMismatch marks a serialized option list that does not match
	// the option layout a parameter kind declares.
	ErrLayoutMismatch = errors.New("option layout mismatch")
)

type (
	ValidationError       = waveform.ValidationError
	NotFoundError         = waveform.NotFoundError
	UnregisteredTypeError = waveform.UnregisteredTypeError
)

// LayoutMismatchError reports the declared and the offered option layout.
type LayoutMismatchError struct {
	Parameter string
	Want      []OptionSpec
	Got       []OptionSpec
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("parameter %q: expected options [%s], got [%s]",
		e.Parameter, formatSpecs(e.Want), formatSpecs(e.Got))
}

func (e *LayoutMismatchError) Unwrap() error {
	return ErrLayoutMismatch
}

func formatSpecs(specs []OptionSpec) string {
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}
