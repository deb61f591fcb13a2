package waveform

import (
	"fmt"
)

// Record is the serialized form of a Function.
type Record struct {
	Name       string            `json:"name"`
	Expression string            `json:"expression"`
	Parameters []ParameterRecord `json:"parameters"`
	Resolution float64           `json:"resolution"`
	StartX     float64           `json:"start_x"`
	EndX       float64           `json:"end_x"`
}

// ParameterRecord is the serialized form of a Parameter.
type ParameterRecord struct {
	Name    string  `json:"name"`
	Symbol  string  `json:"symbol"`
	Value   float64 `json:"value"`
	Default float64 `json:"default"`
}

// Record serializes f.
func (f *Function) Record() Record {
	rec := Record{
		Name:       f.name,
		Expression: f.expression.String(),
		Parameters: make([]ParameterRecord, 0, len(f.parameters)),
		Resolution: f.resolution,
		StartX:     f.startX,
		EndX:       f.endX,
	}
	for _, p := range f.parameters {
		rec.Parameters = append(rec.Parameters, ParameterRecord{
			Name:    p.Name,
			Symbol:  p.Symbol,
			Value:   p.Value,
			Default: p.Default,
		})
	}
	return rec
}

// FromRecord rebuilds a function. The shape is resolved by rec.Name; the
// record's expression, domain, resolution and parameters then replace the
// shape's defaults. A zero resolution keeps the shape's default.
func FromRecord(rec Record) (*Function, error) {
	ctor, ok := Lookup(rec.Name)
	if !ok {
		return nil, &UnregisteredTypeError{Kind: "function", Tag: rec.Name}
	}
	shape := ctor()

	params := make([]*Parameter, 0, len(rec.Parameters))
	for _, pr := range rec.Parameters {
		p := &Parameter{Name: pr.Name, Symbol: pr.Symbol, Value: pr.Value, Default: pr.Default}
		if err := p.SetValue(pr.Value); err != nil {
			return nil, fmt.Errorf("function %q: %w", rec.Name, err)
		}
		params = append(params, p)
	}

	f, err := New(rec.Name, rec.Expression, rec.StartX, rec.EndX, params...)
	if err != nil {
		return nil, err
	}

	resolution := rec.Resolution
	if resolution == 0 {
		resolution = shape.Resolution()
	}
	if err := f.SetResolution(resolution); err != nil {
		return nil, fmt.Errorf("function %q: %w", rec.Name, err)
	}
	return f, nil
}
