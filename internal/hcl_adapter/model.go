package hcl_adapter

import (
	"github.com/hashicorp/hcl/v2"
)

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Spectrometers []*SpectrometerBlock `hcl:"spectrometer,block"`
	Sequences     []*SequenceBlock     `hcl:"sequence,block"`
	Remain        hcl.Body             `hcl:",remain"`
}

// SpectrometerBlock is `spectrometer "<name>" { ... }`.
type SpectrometerBlock struct {
	Name       string                 `hcl:"name,label"`
	Parameters []*PulseParameterBlock `hcl:"pulse_parameter,block"`
	Settings   []*SettingBlock        `hcl:"setting,block"`
}

// PulseParameterBlock is `pulse_parameter "<name>" { kind = tx_pulse }`.
type PulseParameterBlock struct {
	Name string         `hcl:"name,label"`
	Kind hcl.Expression `hcl:"kind"`
}

// SettingBlock declares one spectrometer setting.
type SettingBlock struct {
	Name        string         `hcl:"name,label"`
	Type        hcl.Expression `hcl:"type"`
	Default     hcl.Expression `hcl:"default"`
	Category    string         `hcl:"category,optional"`
	Description string         `hcl:"description,optional"`
	Min         *float64       `hcl:"min,optional"`
	Max         *float64       `hcl:"max,optional"`
	Options     []string       `hcl:"options,optional"`
}

// SequenceBlock is `sequence "<name>" { event "<name>" { ... } }`.
type SequenceBlock struct {
	Name   string        `hcl:"name,label"`
	Events []*EventBlock `hcl:"event,block"`
}

// EventBlock holds the duration expression and the parameters of one event.
type EventBlock struct {
	Name       string            `hcl:"name,label"`
	Duration   hcl.Expression    `hcl:"duration"`
	Parameters []*ParameterBlock `hcl:"parameter,block"`
}

// ParameterBlock overrides options of one pulse parameter.
type ParameterBlock struct {
	Name    string         `hcl:"name,label"`
	Options []*OptionBlock `hcl:"option,block"`
}

// OptionBlock sets one option. Plain options use value; function options
// use function, parameters and expression.
type OptionBlock struct {
	Name       string         `hcl:"name,label"`
	Value      hcl.Expression `hcl:"value,optional"`
	Function   *string        `hcl:"function,optional"`
	Parameters hcl.Expression `hcl:"parameters,optional"`
	Expression *string        `hcl:"expression,optional"`
}
