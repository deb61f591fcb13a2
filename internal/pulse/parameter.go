// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"fmt"
	"slices"
)

// Preview keys returned by parameters without a shape.
const (
	PreviewOn  = "on"
	PreviewOff = "off"
)

// PulseParameter is one controllable aspect of an event, described by an
// ordered set of uniquely named options.
type PulseParameter interface {
	Name() string
	// Kind is the stable identifier of the concrete implementation.
	Kind() string
	Options() []Option
	OptionByName(name string) (Option, error)
	// Layout returns the names and type tags of the options in order.
	Layout() []OptionSpec
	// ReplaceOptions swaps in opts if they match Layout exactly.
	ReplaceOptions(opts []Option) error
	// PreviewKey names the icon the rendering layer shows for the current state.
	PreviewKey() string
}

// Base implements the option bookkeeping shared by every parameter kind.
type Base struct {
	name    string
	kind    string
	options []Option
	sealed  bool
}

// NewBase returns an empty parameter of the given kind.
func NewBase(name, kind string) Base {
	return Base{name: name, kind: kind}
}

func (b *Base) Name() string { return b.name }
func (b *Base) Kind() string { return b.kind }

func (b *Base) Options() []Option {
	return slices.Clone(b.options)
}

func (b *Base) OptionByName(name string) (Option, error) {
	for _, o := range b.options {
		if o.Name() == name {
			return o, nil
		}
	}
	return nil, &NotFoundError{Kind: "option", Name: name, In: "parameter " + b.name}
}

// AddOption appends o. Option names are unique within a parameter, and a
// sealed parameter takes no more options.
func (b *Base) AddOption(o Option) error {
	if o == nil {
		return &ValidationError{Field: "option", Value: nil, Reason: "must not be nil"}
	}
	if b.sealed {
		return &ValidationError{Field: "option", Value: o.Name(), Reason: fmt.Sprintf("parameter %q of kind %q is sealed", b.name, b.kind)}
	}
	if _, err := b.OptionByName(o.Name()); err == nil {
		return &ValidationError{Field: "option", Value: o.Name(), Reason: fmt.Sprintf("already defined on parameter %q", b.name)}
	}
	b.options = append(b.options, o)
	return nil
}

// Seal freezes the option set. Kind constructors call it once every option
// is in place.
func (b *Base) Seal() { b.sealed = true }

func (b *Base) Layout() []OptionSpec {
	return layoutOf(b.options)
}

func (b *Base) ReplaceOptions(opts []Option) error {
	want, got := b.Layout(), layoutOf(opts)
	if !slices.Equal(want, got) {
		return &LayoutMismatchError{Parameter: b.name, Want: want, Got: got}
	}
	b.options = slices.Clone(opts)
	return nil
}

func (b *Base) mustAdd(o Option) {
	if err := b.AddOption(o); err != nil {
		panic(err)
	}
}

func layoutOf(opts []Option) []OptionSpec {
	out := make([]OptionSpec, len(opts))
	for i, o := range opts {
		out[i] = SpecOf(o)
	}
	return out
}

// Watch subscribes fn to every option of p and returns one func that
// removes all the subscriptions.
func Watch(p PulseParameter, fn func(p PulseParameter, o Option)) func() {
	var unsubs []func()
	for _, o := range p.Options() {
		unsubs = append(unsubs, o.Subscribe(func(o Option) { fn(p, o) }))
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
