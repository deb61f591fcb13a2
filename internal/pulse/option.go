// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// Type tags of the option variants. They are part of the persisted format.
const (
	TypeBoolean  = "Boolean"
	TypeNumeric  = "Numeric"
	TypeFunction = "Function"
)

// Option is one typed value of a pulse parameter.
type Option interface {
	Name() string
	// Type returns the serialization tag of the variant.
	Type() string
	Value() any
	// SetValue coerces v to the variant's type and commits it. A rejected
	// value leaves the option unchanged and notifies nobody.
	SetValue(v any) error
	// Record returns the serialized form {name, value, type}.
	Record() (Record, error)
	// Subscribe registers fn to be called synchronously after every
	// successful SetValue. The returned func removes the subscription.
	Subscribe(fn func(Option)) (unsubscribe func())
}

// OptionSpec is the structural identity of an option: its name and tag.
type OptionSpec struct {
	Name string
	Type string
}

func (s OptionSpec) String() string {
	return fmt.Sprintf("%s:%s", s.Name, s.Type)
}

// SpecOf returns the structural identity of o.
func SpecOf(o Option) OptionSpec {
	return OptionSpec{Name: o.Name(), Type: o.Type()}
}

type subscription struct {
	id int
	fn func(Option)
}

// optionBase holds the name and the subscribers every variant shares.
type optionBase struct {
	name   string
	subs   []subscription
	nextID int
}

func (b *optionBase) Name() string { return b.name }

func (b *optionBase) subscribe(fn func(Option)) func() {
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

func (b *optionBase) notify(o Option) {
	for _, s := range append([]subscription(nil), b.subs...) {
		s.fn(o)
	}
}

// BooleanOption holds an on/off value.
type BooleanOption struct {
	optionBase
	value bool
}

// NewBooleanOption returns a Boolean option set to value.
func NewBooleanOption(name string, value bool) *BooleanOption {
	return &BooleanOption{optionBase: optionBase{name: name}, value: value}
}

func (o *BooleanOption) Type() string { return TypeBoolean }
func (o *BooleanOption) Value() any   { return o.value }

// Bool returns the typed value.
func (o *BooleanOption) Bool() bool { return o.value }

// SetValue accepts bools, numbers (non-zero is true) and the strings
// strconv.ParseBool understands. Other strings, "yes" and "" included, are
// rejected rather than judged by truthiness.
func (o *BooleanOption) SetValue(v any) error {
	b, err := coerceBool(v)
	if err != nil {
		return &ValidationError{Field: "option " + o.name, Value: v, Reason: err.Error()}
	}
	o.value = b
	o.notify(o)
	return nil
}

func (o *BooleanOption) Subscribe(fn func(Option)) func() { return o.subscribe(fn) }

// NumericOption holds a finite float64.
type NumericOption struct {
	optionBase
	value float64
}

// NewNumericOption returns a Numeric option set to value.
func NewNumericOption(name string, value float64) *NumericOption {
	return &NumericOption{optionBase: optionBase{name: name}, value: value}
}

func (o *NumericOption) Type() string { return TypeNumeric }
func (o *NumericOption) Value() any   { return o.value }

// Float returns the typed value.
func (o *NumericOption) Float() float64 { return o.value }

// SetValue accepts anything that converts to a finite number, including
// numeric strings such as "3.5".
func (o *NumericOption) SetValue(v any) error {
	f, err := coerceNumber(v)
	if err != nil {
		return &ValidationError{Field: "option " + o.name, Value: v, Reason: err.Error()}
	}
	o.value = f
	o.notify(o)
	return nil
}

func (o *NumericOption) Subscribe(fn func(Option)) func() { return o.subscribe(fn) }

// FunctionOption selects one waveform out of an ordered set of choices.
// The selected function is always one of the choices.
type FunctionOption struct {
	optionBase
	value   *waveform.Function
	choices []*waveform.Function
}

// NewFunctionOption returns an option over choices with the first choice
// selected.
func NewFunctionOption(name string, choices ...*waveform.Function) (*FunctionOption, error) {
	if len(choices) == 0 {
		return nil, &ValidationError{Field: "option " + name, Value: choices, Reason: "at least one choice is required"}
	}
	return &FunctionOption{
		optionBase: optionBase{name: name},
		value:      choices[0],
		choices:    append([]*waveform.Function(nil), choices...),
	}, nil
}

func (o *FunctionOption) Type() string { return TypeFunction }
func (o *FunctionOption) Value() any   { return o.value }

// Function returns the selected waveform.
func (o *FunctionOption) Function() *waveform.Function { return o.value }

// Choices returns the selectable waveforms in order.
func (o *FunctionOption) Choices() []*waveform.Function {
	return append([]*waveform.Function(nil), o.choices...)
}

// FunctionByName returns the choice called name.
func (o *FunctionOption) FunctionByName(name string) (*waveform.Function, error) {
	for _, f := range o.choices {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, &NotFoundError{Kind: "function", Name: name, In: "choices of option " + o.name}
}

// Select makes the choice called name the current value.
func (o *FunctionOption) Select(name string) error {
	f, err := o.FunctionByName(name)
	if err != nil {
		return err
	}
	o.value = f
	o.notify(o)
	return nil
}

// SetValue replaces the selected function. A *waveform.Function takes the
// place of the choice with the same name; a string selects by name.
func (o *FunctionOption) SetValue(v any) error {
	switch f := v.(type) {
	case string:
		return o.Select(f)
	case *waveform.Function:
		if f == nil {
			return &ValidationError{Field: "option " + o.name, Value: v, Reason: "function must not be nil"}
		}
		i, err := o.choiceIndex(f.Name())
		if err != nil {
			return err
		}
		o.choices[i] = f
		o.value = f
		o.notify(o)
		return nil
	default:
		return &ValidationError{Field: "option " + o.name, Value: v, Reason: fmt.Sprintf("expected a waveform function, got %T", v)}
	}
}

func (o *FunctionOption) Subscribe(fn func(Option)) func() { return o.subscribe(fn) }

func (o *FunctionOption) choiceIndex(name string) (int, error) {
	for i, c := range o.choices {
		if c.Name() == name {
			return i, nil
		}
	}
	return -1, &NotFoundError{Kind: "function", Name: name, In: "choices of option " + o.name}
}
