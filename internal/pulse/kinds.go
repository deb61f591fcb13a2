// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package pulse

import (
	"sort"

	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// Kind identifiers of the built-in parameter implementations.
const (
	KindTXPulse   = "tx_pulse"
	KindRXReadout = "rx_readout"
	KindGate      = "gate"
)

// Option names of the built-in kinds.
const (
	OptionRelativeAmplitude = "Relative TX Amplitude"
	OptionTXPhase           = "TX Phase"
	OptionTXPulseShape      = "TX Pulse Shape"
	OptionRX                = "RX"
	OptionGateState         = "Gate State"
)

// Constructor builds a parameter with its default options.
type Constructor func(name string) PulseParameter

// Registry maps the parameter names a spectrometer understands to the
// constructors that produce them.
type Registry map[string]Constructor

// Names returns the registered parameter names, sorted.
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the parameter registered under name.
func (r Registry) New(name string) (PulseParameter, error) {
	ctor, ok := r[name]
	if !ok {
		return nil, &NotFoundError{Kind: "pulse parameter", Name: name, In: "registry"}
	}
	return ctor(name), nil
}

var kinds = map[string]Constructor{
	KindTXPulse:   func(name string) PulseParameter { return NewTXPulse(name) },
	KindRXReadout: func(name string) PulseParameter { return NewRXReadout(name) },
	KindGate:      func(name string) PulseParameter { return NewGate(name) },
}

// KindConstructor returns the constructor of a built-in kind.
func KindConstructor(kind string) (Constructor, error) {
	ctor, ok := kinds[kind]
	if !ok {
		return nil, &UnregisteredTypeError{Kind: "pulse parameter", Tag: kind}
	}
	return ctor, nil
}

// Kinds returns the identifiers of the built-in kinds, sorted.
func Kinds() []string {
	out := make([]string, 0, len(kinds))
	for k := range kinds {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// TXPulse describes a transmit pulse: amplitude, phase and envelope.
type TXPulse struct {
	Base
}

// NewTXPulse returns a transmit pulse at zero amplitude with a rectangular
// envelope selected.
func NewTXPulse(name string) *TXPulse {
	p := &TXPulse{Base: NewBase(name, KindTXPulse)}
	p.mustAdd(NewNumericOption(OptionRelativeAmplitude, 0))
	p.mustAdd(NewNumericOption(OptionTXPhase, 0))
	shape, err := NewFunctionOption(OptionTXPulseShape, waveform.Shapes()...)
	if err != nil {
		panic(err)
	}
	p.mustAdd(shape)
	p.Seal()
	return p
}

// Amplitude returns the relative TX amplitude.
func (p *TXPulse) Amplitude() float64 {
	o, err := p.OptionByName(OptionRelativeAmplitude)
	if err != nil {
		return 0
	}
	n, _ := o.(*NumericOption)
	if n == nil {
		return 0
	}
	return n.Float()
}

// Shape returns the selected envelope.
func (p *TXPulse) Shape() *waveform.Function {
	o, err := p.OptionByName(OptionTXPulseShape)
	if err != nil {
		return nil
	}
	f, _ := o.(*FunctionOption)
	if f == nil {
		return nil
	}
	return f.Function()
}

// PreviewKey is the selected shape's name while the amplitude is positive.
func (p *TXPulse) PreviewKey() string {
	shape := p.Shape()
	if p.Amplitude() > 0 && shape != nil {
		return shape.Name()
	}
	return PreviewOff
}

// RXReadout toggles the receiver.
type RXReadout struct {
	Base
}

func NewRXReadout(name string) *RXReadout {
	p := &RXReadout{Base: NewBase(name, KindRXReadout)}
	p.mustAdd(NewBooleanOption(OptionRX, false))
	p.Seal()
	return p
}

func (p *RXReadout) PreviewKey() string { return boolPreview(&p.Base, OptionRX) }

// Gate toggles the TX gate line.
type Gate struct {
	Base
}

func NewGate(name string) *Gate {
	p := &Gate{Base: NewBase(name, KindGate)}
	p.mustAdd(NewBooleanOption(OptionGateState, false))
	p.Seal()
	return p
}

func (p *Gate) PreviewKey() string { return boolPreview(&p.Base, OptionGateState) }

func boolPreview(b *Base, option string) string {
	o, err := b.OptionByName(option)
	if err != nil {
		return PreviewOff
	}
	if bo, ok := o.(*BooleanOption); ok && bo.Bool() {
		return PreviewOn
	}
	return PreviewOff
}
