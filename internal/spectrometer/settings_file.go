package spectrometer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// SettingsFileExtension is the conventional extension of settings files.
const SettingsFileExtension = ".setduck"

// nameKey holds the spectrometer name in a settings file. Every other key is
// a setting name.
const nameKey = "name"

var (
	// ErrIncompatibleSettings marks a settings file written for another spectrometer.
	ErrIncompatibleSettings = errors.New("incompatible settings file")
	// ErrMissingSettings marks a settings file that lacks some settings.
	ErrMissingSettings = errors.New("missing settings")
)

// IncompatibleSettingsError names both spectrometers.
type IncompatibleSettingsError struct {
	Want string
	Got  string
}

func (e *IncompatibleSettingsError) Error() string {
	return fmt.Sprintf("spectrometer %q is not compatible with the spectrometer %q named in the settings file", e.Want, e.Got)
}

func (e *IncompatibleSettingsError) Unwrap() error { return ErrIncompatibleSettings }

// MissingSettingsError lists settings absent from a loaded file. Everything
// else was applied.
type MissingSettingsError struct {
	Names []string
}

func (e *MissingSettingsError) Error() string {
	return fmt.Sprintf("settings not found in file: %s", strings.Join(e.Names, ", "))
}

func (e *MissingSettingsError) Unwrap() error { return ErrMissingSettings }

// SaveSettings writes the current values as a flat JSON object keyed by
// setting name, with the spectrometer name under "name".
func (p *Profile) SaveSettings(w io.Writer) error {
	doc := make(map[string]json.RawMessage, len(p.settings)+1)
	name, err := json.Marshal(p.name)
	if err != nil {
		return err
	}
	doc[nameKey] = name
	for _, s := range p.settings {
		ty, _ := ctyType(s.Kind())
		raw, err := ctyjson.Marshal(s.Value(), ty)
		if err != nil {
			return fmt.Errorf("encoding setting %q: %w", s.Name(), err)
		}
		doc[s.Name()] = raw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadSettings applies a settings file. A file for another spectrometer
// changes nothing. All present values are validated before any is applied;
// settings missing from the file keep their value and are reported in a
// *MissingSettingsError.
func (p *Profile) LoadSettings(ctx context.Context, r io.Reader) error {
	logger := ctxlog.FromContext(ctx).With("spectrometer", p.name)

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}

	var fileName string
	if raw, ok := doc[nameKey]; ok {
		if err := json.Unmarshal(raw, &fileName); err != nil {
			return fmt.Errorf("reading settings file: %w", err)
		}
	}
	if fileName != p.name {
		return &IncompatibleSettingsError{Want: p.name, Got: fileName}
	}

	var missing []string
	staged := make([]*Setting, 0, len(p.settings))
	for _, s := range p.settings {
		raw, ok := doc[s.Name()]
		if !ok {
			missing = append(missing, s.Name())
			continue
		}
		ty, _ := ctyType(s.Kind())
		v, err := ctyjson.Unmarshal(bytes.TrimSpace(raw), ty)
		if err != nil {
			return &pulse.ValidationError{Field: "setting " + s.Name(), Value: string(raw), Reason: err.Error()}
		}
		candidate := *s
		if err := candidate.SetValue(v); err != nil {
			return err
		}
		staged = append(staged, &candidate)
	}

	for _, st := range staged {
		live, _ := p.Setting(st.Name())
		live.value = st.value
		logger.Debug("Applied setting.", "setting", st.Name(), "value", st.GoValue())
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		logger.Warn("Settings file is missing settings.", "missing", missing)
		return &MissingSettingsError{Names: missing}
	}
	return nil
}

// SaveSettingsFile writes the settings to path.
func (p *Profile) SaveSettingsFile(path string) error {
	var buf bytes.Buffer
	if err := p.SaveSettings(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// LoadSettingsFile applies the settings file at path.
func (p *Profile) LoadSettingsFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.LoadSettings(ctx, f)
}
