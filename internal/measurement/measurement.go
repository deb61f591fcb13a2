package measurement

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/specialistvlad/pulseduck/internal/waveform"
)

// ValidationError is shared with the waveform package, so errors.Is against
// waveform.ErrValidation matches rejected measurements too.
type ValidationError = waveform.ValidationError

// Measurement is an immutable acquisition result.
type Measurement struct {
	tdx             []float64
	tdy             []complex128
	targetFrequency float64
	ifFrequency     float64
}

// New builds a measurement. tdx and tdy must have the same length and the
// frequencies must be finite.
func New(tdx []float64, tdy []complex128, targetFrequency, ifFrequency float64) (*Measurement, error) {
	if len(tdx) != len(tdy) {
		return nil, &ValidationError{Field: "tdy", Value: len(tdy),
			Reason: fmt.Sprintf("has %d samples, tdx has %d", len(tdy), len(tdx))}
	}
	if err := finite("target_frequency", targetFrequency); err != nil {
		return nil, err
	}
	if err := finite("IF_frequency", ifFrequency); err != nil {
		return nil, err
	}
	return &Measurement{
		tdx:             append([]float64(nil), tdx...),
		tdy:             append([]complex128(nil), tdy...),
		targetFrequency: targetFrequency,
		ifFrequency:     ifFrequency,
	}, nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be finite"}
	}
	return nil
}

// TDX returns a copy of the sample times in seconds.
func (m *Measurement) TDX() []float64 { return append([]float64(nil), m.tdx...) }

// TDY returns a copy of the complex time-domain signal.
func (m *Measurement) TDY() []complex128 { return append([]complex128(nil), m.tdy...) }

func (m *Measurement) TargetFrequency() float64 { return m.targetFrequency }
func (m *Measurement) IFFrequency() float64     { return m.ifFrequency }

// Len returns the number of samples.
func (m *Measurement) Len() int { return len(m.tdx) }

// Magnitude returns |tdy| per sample.
func (m *Measurement) Magnitude() []float64 {
	out := make([]float64, len(m.tdy))
	for i, v := range m.tdy {
		out[i] = math.Hypot(real(v), imag(v))
	}
	return out
}

// Record is the serialized form of a Measurement.
type Record struct {
	TDX             []float64    `json:"tdx"`
	TDY             [][2]float64 `json:"tdy"`
	TargetFrequency float64      `json:"target_frequency"`
	IFFrequency     float64      `json:"IF_frequency"`
}

// Record serializes m.
func (m *Measurement) Record() Record {
	rec := Record{
		TDX:             append(make([]float64, 0, len(m.tdx)), m.tdx...),
		TDY:             make([][2]float64, len(m.tdy)),
		TargetFrequency: m.targetFrequency,
		IFFrequency:     m.ifFrequency,
	}
	for i, v := range m.tdy {
		rec.TDY[i] = [2]float64{real(v), imag(v)}
	}
	return rec
}

// FromRecord rebuilds a measurement.
func FromRecord(rec Record) (*Measurement, error) {
	tdy := make([]complex128, len(rec.TDY))
	for i, pair := range rec.TDY {
		tdy[i] = complex(pair[0], pair[1])
	}
	return New(rec.TDX, tdy, rec.TargetFrequency, rec.IFFrequency)
}

func (m *Measurement) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Record())
}

func (m *Measurement) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding measurement: %w", err)
	}
	restored, err := FromRecord(rec)
	if err != nil {
		return err
	}
	*m = *restored
	return nil
}

// Save writes m as JSON to path.
func (m *Measurement) Save(path string) error {
	raw, err := json.MarshalIndent(m.Record(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding measurement: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing measurement %q: %w", path, err)
	}
	return nil
}

// Load reads a measurement written by Save.
func Load(path string) (*Measurement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading measurement %q: %w", path, err)
	}
	var m Measurement
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("measurement %q: %w", path, err)
	}
	return &m, nil
}
