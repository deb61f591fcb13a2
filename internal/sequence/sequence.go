// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequence

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pulseduck/internal/pulse"
)

// Sequence is an ordered timeline of events.
type Sequence struct {
	name   string
	events []*Event
}

// New returns an empty sequence.
func New(name string) *Sequence {
	return &Sequence{name: name}
}

func (s *Sequence) Name() string { return s.name }

// Events returns the events in timeline order.
func (s *Sequence) Events() []*Event {
	return slices.Clone(s.events)
}

// EventNames returns the event names in timeline order.
func (s *Sequence) EventNames() []string {
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.name
	}
	return out
}

// AddEvent appends e. Event names are unique within a sequence.
func (s *Sequence) AddEvent(e *Event) error {
	if e == nil {
		return &pulse.ValidationError{Field: "event", Value: nil, Reason: "must not be nil"}
	}
	if s.index(e.name) >= 0 {
		return &pulse.ValidationError{Field: "event", Value: e.name, Reason: fmt.Sprintf("already defined in sequence %q", s.name)}
	}
	s.events = append(s.events, e)
	return nil
}

// Event returns the event called name.
func (s *Sequence) Event(name string) (*Event, error) {
	i := s.index(name)
	if i < 0 {
		return nil, &pulse.NotFoundError{Kind: "event", Name: name, In: "sequence " + s.name}
	}
	return s.events[i], nil
}

func (s *Sequence) RemoveEvent(name string) error {
	i := s.index(name)
	if i < 0 {
		return &pulse.NotFoundError{Kind: "event", Name: name, In: "sequence " + s.name}
	}
	s.events = slices.Delete(s.events, i, i+1)
	return nil
}

// TotalDuration is the sum of all event durations, in seconds.
func (s *Sequence) TotalDuration() float64 {
	var total float64
	for _, e := range s.events {
		total += e.duration
	}
	return total
}

func (s *Sequence) index(name string) int {
	return slices.IndexFunc(s.events, func(e *Event) bool { return e.name == name })
}
