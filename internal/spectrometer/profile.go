package spectrometer

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pulseduck/internal/pulse"
)

// ParameterSpec binds a pulse-parameter name to a built-in kind.
type ParameterSpec struct {
	Name string
	Kind string
}

// Profile describes one spectrometer: the pulse parameters its events
// accept and its settings.
type Profile struct {
	name       string
	parameters []ParameterSpec
	settings   []*Setting
}

// NewProfile validates that parameter and setting names are unique and
// that every parameter kind is known.
func NewProfile(name string, parameters []ParameterSpec, settings []*Setting) (*Profile, error) {
	if name == "" {
		return nil, &pulse.ValidationError{Field: "spectrometer name", Value: name, Reason: "must not be empty"}
	}

	seen := make(map[string]bool, len(parameters))
	for _, ps := range parameters {
		if seen[ps.Name] {
			return nil, &pulse.ValidationError{Field: "pulse parameter", Value: ps.Name, Reason: fmt.Sprintf("declared twice on spectrometer %q", name)}
		}
		seen[ps.Name] = true
		if _, err := pulse.KindConstructor(ps.Kind); err != nil {
			return nil, fmt.Errorf("spectrometer %q: pulse parameter %q: %w", name, ps.Name, err)
		}
	}

	seen = make(map[string]bool, len(settings))
	for _, s := range settings {
		if seen[s.Name()] {
			return nil, &pulse.ValidationError{Field: "setting", Value: s.Name(), Reason: fmt.Sprintf("declared twice on spectrometer %q", name)}
		}
		seen[s.Name()] = true
	}

	return &Profile{
		name:       name,
		parameters: slices.Clone(parameters),
		settings:   slices.Clone(settings),
	}, nil
}

func (p *Profile) Name() string { return p.name }

// Parameters returns the declared pulse parameters in order.
func (p *Profile) Parameters() []ParameterSpec { return slices.Clone(p.parameters) }

// Registry returns the name-to-constructor mapping sequences are loaded
// against.
func (p *Profile) Registry() pulse.Registry {
	r := make(pulse.Registry, len(p.parameters))
	for _, ps := range p.parameters {
		ctor, err := pulse.KindConstructor(ps.Kind)
		if err != nil {
			continue
		}
		r[ps.Name] = ctor
	}
	return r
}

// Settings returns the settings in declaration order.
func (p *Profile) Settings() []*Setting { return slices.Clone(p.settings) }

func (p *Profile) Setting(name string) (*Setting, error) {
	for _, s := range p.settings {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, &pulse.NotFoundError{Kind: "setting", Name: name, In: "spectrometer " + p.name}
}

// Categories returns the distinct setting categories in first-seen order.
func (p *Profile) Categories() []string {
	var out []string
	for _, s := range p.settings {
		if !slices.Contains(out, s.Category()) {
			out = append(out, s.Category())
		}
	}
	return out
}

// SettingsIn returns the settings of one category in declaration order.
func (p *Profile) SettingsIn(category string) []*Setting {
	var out []*Setting
	for _, s := range p.settings {
		if s.Category() == category {
			out = append(out, s)
		}
	}
	return out
}
