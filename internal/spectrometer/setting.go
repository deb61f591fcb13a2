package spectrometer

import (
	"fmt"
	"net/netip"
	"slices"

	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Setting kinds.
const (
	KindFloat     = "float"
	KindInt       = "int"
	KindBool      = "bool"
	KindString    = "string"
	KindSelection = "selection"
	KindIP        = "ip"
)

// SettingSpec declares a setting.
type SettingSpec struct {
	Name        string
	Category    string
	Description string
	Kind        string
	Default     cty.Value
	Min         *float64
	Max         *float64
	// Options lists the allowed values of a selection setting.
	Options []string
}

// Setting is one typed, validated spectrometer setting.
type Setting struct {
	spec  SettingSpec
	value cty.Value
}

// NewSetting validates spec and returns a setting holding its default.
func NewSetting(spec SettingSpec) (*Setting, error) {
	if spec.Name == "" {
		return nil, &pulse.ValidationError{Field: "setting name", Value: spec.Name, Reason: "must not be empty"}
	}
	if _, err := ctyType(spec.Kind); err != nil {
		return nil, fmt.Errorf("setting %q: %w", spec.Name, err)
	}
	if spec.Min != nil && spec.Max != nil && *spec.Min > *spec.Max {
		return nil, &pulse.ValidationError{Field: "setting " + spec.Name, Value: *spec.Min, Reason: "min is greater than max"}
	}
	if spec.Kind == KindSelection && len(spec.Options) == 0 {
		return nil, &pulse.ValidationError{Field: "setting " + spec.Name, Value: spec.Options, Reason: "a selection needs options"}
	}

	s := &Setting{spec: spec}
	if spec.Default == cty.NilVal || spec.Default.IsNull() {
		return nil, &pulse.ValidationError{Field: "setting " + spec.Name, Value: nil, Reason: "default is required"}
	}
	def, err := s.coerce(spec.Default)
	if err != nil {
		return nil, fmt.Errorf("default of setting %q: %w", spec.Name, err)
	}
	s.spec.Default = def
	s.value = def
	return s, nil
}

func (s *Setting) Name() string        { return s.spec.Name }
func (s *Setting) Category() string    { return s.spec.Category }
func (s *Setting) Description() string { return s.spec.Description }
func (s *Setting) Kind() string        { return s.spec.Kind }
func (s *Setting) Options() []string   { return slices.Clone(s.spec.Options) }
func (s *Setting) Value() cty.Value    { return s.value }
func (s *Setting) Default() cty.Value  { return s.spec.Default }

// Bounds returns the optional limits of a numeric setting.
func (s *Setting) Bounds() (min, max *float64) { return s.spec.Min, s.spec.Max }

// SetValue converts v to the setting's type and commits it if it passes
// validation. The old value stays on error.
func (s *Setting) SetValue(v cty.Value) error {
	c, err := s.coerce(v)
	if err != nil {
		return err
	}
	s.value = c
	return nil
}

// SetString parses text the way a value typed on the command line is read.
func (s *Setting) SetString(text string) error {
	return s.SetValue(cty.StringVal(text))
}

// Reset restores the default.
func (s *Setting) Reset() {
	s.value = s.spec.Default
}

// GoValue returns the value as float64, int64, bool or string.
func (s *Setting) GoValue() any {
	switch s.spec.Kind {
	case KindFloat:
		f, _ := s.value.AsBigFloat().Float64()
		return f
	case KindInt:
		i, _ := s.value.AsBigFloat().Int64()
		return i
	case KindBool:
		return s.value.True()
	default:
		return s.value.AsString()
	}
}

func (s *Setting) coerce(v cty.Value) (cty.Value, error) {
	ty, _ := ctyType(s.spec.Kind)
	invalid := func(reason string) error {
		return &pulse.ValidationError{Field: "setting " + s.spec.Name, Value: v.GoString(), Reason: reason}
	}

	if v == cty.NilVal || v.IsNull() || !v.IsKnown() {
		return cty.NilVal, invalid("value is null")
	}
	c, err := convert.Convert(v, ty)
	if err != nil {
		return cty.NilVal, invalid(fmt.Sprintf("expected %s", ty.FriendlyName()))
	}

	switch s.spec.Kind {
	case KindFloat, KindInt:
		bf := c.AsBigFloat()
		if bf.IsInf() {
			return cty.NilVal, invalid("value is not finite")
		}
		if s.spec.Kind == KindInt && !bf.IsInt() {
			return cty.NilVal, invalid("value must be a whole number")
		}
		f, _ := bf.Float64()
		if s.spec.Min != nil && f < *s.spec.Min {
			return cty.NilVal, invalid(fmt.Sprintf("value is below the minimum %g", *s.spec.Min))
		}
		if s.spec.Max != nil && f > *s.spec.Max {
			return cty.NilVal, invalid(fmt.Sprintf("value is above the maximum %g", *s.spec.Max))
		}
	case KindSelection:
		if !slices.Contains(s.spec.Options, c.AsString()) {
			return cty.NilVal, invalid(fmt.Sprintf("value must be one of %v", s.spec.Options))
		}
	case KindIP:
		if _, err := netip.ParseAddr(c.AsString()); err != nil {
			return cty.NilVal, invalid("value must be a valid IP address")
		}
	}
	return c, nil
}

func ctyType(kind string) (cty.Type, error) {
	switch kind {
	case KindFloat, KindInt:
		return cty.Number, nil
	case KindBool:
		return cty.Bool, nil
	case KindString, KindSelection, KindIP:
		return cty.String, nil
	}
	return cty.NilType, &pulse.UnregisteredTypeError{Kind: "setting", Tag: kind}
}
