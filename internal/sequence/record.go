// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file converts between live sequences and their persisted record
// tree. Field names and nesting are the interchange format shared with
// already saved sequences and must not change.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/pulse"
)

// Record is the persisted form of a Sequence.
type Record struct {
	Name   string        `json:"name"`
	Events []EventRecord `json:"events"`
}

// EventRecord is the persisted form of an Event.
type EventRecord struct {
	Name       string            `json:"name"`
	Duration   float64           `json:"duration"`
	Parameters []ParameterRecord `json:"parameters"`
}

// ParameterRecord holds a parameter's name and its options in order.
type ParameterRecord struct {
	Name  string         `json:"name"`
	Value []pulse.Record `json:"value"`
}

// Dump returns the record tree of s, preserving event, parameter and
// option order.
func (s *Sequence) Dump() (Record, error) {
	rec := Record{Name: s.name, Events: make([]EventRecord, 0, len(s.events))}
	for _, e := range s.events {
		er, err := e.Dump()
		if err != nil {
			return Record{}, fmt.Errorf("sequence %q: %w", s.name, err)
		}
		rec.Events = append(rec.Events, er)
	}
	return rec, nil
}

// Dump returns the record of e.
func (e *Event) Dump() (EventRecord, error) {
	rec := EventRecord{
		Name:       e.name,
		Duration:   e.duration,
		Parameters: make([]ParameterRecord, 0, len(e.params)),
	}
	for _, np := range e.params {
		pr := ParameterRecord{Name: np.name, Value: []pulse.Record{}}
		for _, o := range np.param.Options() {
			or, err := o.Record()
			if err != nil {
				return EventRecord{}, fmt.Errorf("event %q: parameter %q: %w", e.name, np.name, err)
			}
			pr.Value = append(pr.Value, or)
		}
		rec.Parameters = append(rec.Parameters, pr)
	}
	return rec, nil
}

// LoadEvent rebuilds an event. Parameters unknown to registry are skipped.
// Parameters whose options do not match the registered layout are skipped
// and returned as mismatches. Any other failure aborts the event.
func LoadEvent(ctx context.Context, rec EventRecord, registry pulse.Registry) (*Event, []*SchemaMismatchError, error) {
	logger := ctxlog.FromContext(ctx).With("event", rec.Name)

	e, err := NewEvent(rec.Name, rec.Duration)
	if err != nil {
		return nil, nil, err
	}

	var mismatches []*SchemaMismatchError
	for _, pr := range rec.Parameters {
		ctor, ok := registry[pr.Name]
		if !ok {
			logger.Debug("Skipping parameter unknown to the spectrometer.", "parameter", pr.Name)
			continue
		}

		p := ctor(pr.Name)
		options := make([]pulse.Option, 0, len(pr.Value))
		for _, or := range pr.Value {
			o, err := pulse.DecodeOption(or)
			if err != nil {
				return nil, nil, fmt.Errorf("event %q: parameter %q: %w", rec.Name, pr.Name, err)
			}
			options = append(options, o)
		}

		if err := p.ReplaceOptions(options); err != nil {
			if !errors.Is(err, pulse.ErrLayoutMismatch) {
				return nil, nil, fmt.Errorf("event %q: parameter %q: %w", rec.Name, pr.Name, err)
			}
			logger.Warn("Skipping parameter with mismatched options.", "parameter", pr.Name, "error", err)
			mismatches = append(mismatches, &SchemaMismatchError{Event: rec.Name, Parameter: pr.Name, Err: err})
			continue
		}

		if err := e.AddParameter(pr.Name, p); err != nil {
			return nil, nil, err
		}
		logger.Debug("Loaded parameter.", "parameter", pr.Name, "kind", p.Kind())
	}
	return e, mismatches, nil
}

// Load rebuilds a sequence from rec. When parameters had to be skipped for
// a layout mismatch, the sequence is returned together with a
// *PartialLoadError. On any other error the sequence is nil.
func Load(ctx context.Context, rec Record, registry pulse.Registry) (*Sequence, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading sequence.", "sequence", rec.Name, "events", len(rec.Events))

	s := New(rec.Name)
	var mismatches []*SchemaMismatchError
	for _, er := range rec.Events {
		e, mm, err := LoadEvent(ctx, er, registry)
		if err != nil {
			return nil, fmt.Errorf("sequence %q: %w", rec.Name, err)
		}
		if err := s.AddEvent(e); err != nil {
			return nil, err
		}
		mismatches = append(mismatches, mm...)
	}

	if len(mismatches) > 0 {
		return s, &PartialLoadError{Sequence: rec.Name, Mismatches: mismatches}
	}
	return s, nil
}
