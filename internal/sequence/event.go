// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequence

import (
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/pulseduck/internal/pulse"
)

type namedParameter struct {
	name  string
	param pulse.PulseParameter
}

// Event is a named, timed slot of a sequence. Its parameters form an
// ordered mapping keyed by name.
type Event struct {
	name     string
	duration float64
	params   []namedParameter
}

// NewEvent returns an event without parameters. duration is in seconds and
// must be positive.
func NewEvent(name string, duration float64) (*Event, error) {
	if name == "" {
		return nil, &pulse.ValidationError{Field: "event name", Value: name, Reason: "must not be empty"}
	}
	if err := validateDuration(duration); err != nil {
		return nil, fmt.Errorf("event %q: %w", name, err)
	}
	return &Event{name: name, duration: duration}, nil
}

func (e *Event) Name() string      { return e.name }
func (e *Event) Duration() float64 { return e.duration }

// OnDurationChanged replaces the duration if it is positive and finite.
func (e *Event) OnDurationChanged(duration float64) error {
	if err := validateDuration(duration); err != nil {
		return fmt.Errorf("event %q: %w", e.name, err)
	}
	e.duration = duration
	return nil
}

// AddParameter appends p under name. Names are unique within an event.
func (e *Event) AddParameter(name string, p pulse.PulseParameter) error {
	if p == nil {
		return &pulse.ValidationError{Field: "parameter " + name, Value: nil, Reason: "must not be nil"}
	}
	if e.index(name) >= 0 {
		return &pulse.ValidationError{Field: "parameter", Value: name, Reason: fmt.Sprintf("already defined on event %q", e.name)}
	}
	e.params = append(e.params, namedParameter{name: name, param: p})
	return nil
}

// Parameter returns the parameter stored under name.
func (e *Event) Parameter(name string) (pulse.PulseParameter, error) {
	i := e.index(name)
	if i < 0 {
		return nil, &pulse.NotFoundError{Kind: "parameter", Name: name, In: "event " + e.name}
	}
	return e.params[i].param, nil
}

// Parameters returns the parameters in insertion order.
func (e *Event) Parameters() []pulse.PulseParameter {
	out := make([]pulse.PulseParameter, len(e.params))
	for i, np := range e.params {
		out[i] = np.param
	}
	return out
}

// ParameterNames returns the parameter keys in insertion order.
func (e *Event) ParameterNames() []string {
	out := make([]string, len(e.params))
	for i, np := range e.params {
		out[i] = np.name
	}
	return out
}

func (e *Event) RemoveParameter(name string) error {
	i := e.index(name)
	if i < 0 {
		return &pulse.NotFoundError{Kind: "parameter", Name: name, In: "event " + e.name}
	}
	e.params = slices.Delete(e.params, i, i+1)
	return nil
}

func (e *Event) index(name string) int {
	return slices.IndexFunc(e.params, func(np namedParameter) bool { return np.name == name })
}

func validateDuration(d float64) error {
	if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		return &pulse.ValidationError{Field: "duration", Value: d, Reason: "must be a positive number of seconds"}
	}
	return nil
}
