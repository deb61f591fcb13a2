// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// Record is the serialized form of an Option.
type Record struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
	Type  string          `json:"type"`
}

type decodeFunc func(name string, value json.RawMessage) (Option, error)

// codecs maps every option type tag to its decoder. New variants register
// here; nothing is discovered at runtime.
var codecs = map[string]decodeFunc{
	TypeBoolean:  decodeBoolean,
	TypeNumeric:  decodeNumeric,
	TypeFunction: decodeFunction,
}

// OptionTypes returns the type tags DecodeOption understands.
func OptionTypes() []string {
	return []string{TypeBoolean, TypeNumeric, TypeFunction}
}

// DecodeOption rebuilds an option from its record, dispatching on Type.
func DecodeOption(rec Record) (Option, error) {
	decode, ok := codecs[rec.Type]
	if !ok {
		return nil, &UnregisteredTypeError{Kind: "option", Tag: rec.Type}
	}
	if len(bytes.TrimSpace(rec.Value)) == 0 {
		return nil, &ValidationError{Field: "option " + rec.Name, Value: nil, Reason: "value is missing"}
	}
	return decode(rec.Name, rec.Value)
}

func (o *BooleanOption) Record() (Record, error) {
	return encodeRecord(o, o.value)
}

func (o *NumericOption) Record() (Record, error) {
	return encodeRecord(o, o.value)
}

func (o *FunctionOption) Record() (Record, error) {
	return encodeRecord(o, o.value.Record())
}

func encodeRecord(o Option, value any) (Record, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return Record{}, fmt.Errorf("encoding option %q: %w", o.Name(), err)
	}
	return Record{Name: o.Name(), Value: raw, Type: o.Type()}, nil
}

func decodeBoolean(name string, value json.RawMessage) (Option, error) {
	var v any
	if err := unmarshalNumber(value, &v); err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	o := NewBooleanOption(name, false)
	if err := o.SetValue(v); err != nil {
		return nil, err
	}
	return o, nil
}

func decodeNumeric(name string, value json.RawMessage) (Option, error) {
	var v any
	if err := unmarshalNumber(value, &v); err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	o := NewNumericOption(name, 0)
	if err := o.SetValue(v); err != nil {
		return nil, err
	}
	return o, nil
}

// decodeFunction restores the function and offers it among fresh instances
// of the built-in shapes, taking the place of the shape of the same name.
func decodeFunction(name string, value json.RawMessage) (Option, error) {
	var rec waveform.Record
	if err := json.Unmarshal(value, &rec); err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	f, err := waveform.FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("option %q: %w", name, err)
	}
	o, err := NewFunctionOption(name, waveform.Shapes()...)
	if err != nil {
		return nil, err
	}
	if err := o.SetValue(f); err != nil {
		return nil, err
	}
	return o, nil
}

func unmarshalNumber(raw json.RawMessage, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
