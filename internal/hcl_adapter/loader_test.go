package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/spectrometer"
	"github.com/specialistvlad/pulseduck/internal/waveform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileHCL = `
spectrometer "Bench" {
  pulse_parameter "TX" {
    kind = tx_pulse
  }
  pulse_parameter "RX" {
    kind = "rx_readout"
  }

  setting "Frequency" {
    category    = "Acquisition"
    type        = float
    default     = 83.56e6
    min         = 0
    description = "Experiment frequency in Hz."
  }
  setting "Averages" {
    category = "Acquisition"
    type     = int
    default  = 16
    min      = 1
    max      = 1000
  }
  setting "Port" {
    type    = selection
    default = "A"
    options = ["A", "B"]
  }
}
`

const sequenceHCL = `
sequence "spin-echo" {
  event "excite" {
    duration = 10 * us
    parameter "TX" {
      option "Relative TX Amplitude" {
        value = 1
      }
      option "TX Pulse Shape" {
        function   = "Sinc"
        parameters = { l = 3 }
      }
    }
  }
  event "readout" {
    duration = 50e-6
    parameter "RX" {
      option "RX" {
        value = true
      }
    }
  }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadProfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bench.hcl", profileHCL)

	profiles, err := NewLoader().LoadProfiles(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	p := profiles[0]
	assert.Equal(t, "Bench", p.Name())
	assert.Equal(t, []string{"RX", "TX"}, p.Registry().Names())

	freq, err := p.Setting("Frequency")
	require.NoError(t, err)
	assert.Equal(t, 83.56e6, freq.GoValue())
	assert.Equal(t, spectrometer.KindFloat, freq.Kind())

	avg, err := p.Setting("Averages")
	require.NoError(t, err)
	require.ErrorIs(t, avg.SetString("1001"), pulse.ErrValidation)

	port, err := p.Setting("Port")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, port.Options())
}

func TestLoadProfiles_Errors(t *testing.T) {
	testCases := map[string]string{
		"unknown kind": `
spectrometer "X" {
  pulse_parameter "TX" {
    kind = decoupler
  }
}`,
		"bad default": `
spectrometer "X" {
  setting "A" {
    type    = int
    default = "many"
  }
}`,
		"unknown type": `
spectrometer "X" {
  setting "A" {
    type    = complex
    default = 1
  }
}`,
		"duplicate":        "spectrometer \"X\" {}\nspectrometer \"X\" {}\n",
		"syntax":           `spectrometer "X" {`,
		"unknown argument": `spectrometer "X" { color = "red" }`,
	}

	for name, src := range testCases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "p.hcl", src)
			_, err := NewLoader().LoadProfiles(context.Background(), path)
			require.Error(t, err)
		})
	}
}

func TestParseSequence(t *testing.T) {
	registry := spectrometer.LimeNQR().Registry()
	s, err := NewLoader().ParseSequence(context.Background(), "spin-echo.hcl", []byte(sequenceHCL), registry)
	require.NoError(t, err)

	require.Equal(t, "spin-echo", s.Name())
	require.Equal(t, []string{"excite", "readout"}, s.EventNames())

	excite, err := s.Event("excite")
	require.NoError(t, err)
	require.InDelta(t, 10e-6, excite.Duration(), 1e-18)

	p, err := excite.Parameter("TX")
	require.NoError(t, err)
	tx := p.(*pulse.TXPulse)
	require.Equal(t, 1.0, tx.Amplitude())
	require.Equal(t, waveform.Sinc, tx.Shape().Name())
	l, err := tx.Shape().ParameterBySymbol("l")
	require.NoError(t, err)
	require.Equal(t, 3.0, l.Value)
	require.Equal(t, waveform.Sinc, tx.PreviewKey())

	readout, err := s.Event("readout")
	require.NoError(t, err)
	rx, err := readout.Parameter("RX")
	require.NoError(t, err)
	require.Equal(t, pulse.PreviewOn, rx.PreviewKey())
}

func TestParseSequence_CustomExpression(t *testing.T) {
	src := `
sequence "custom" {
  event "e" {
    duration = 1 * ms
    parameter "TX" {
      option "TX Pulse Shape" {
        function   = "Custom"
        expression = "1 - pow(x, 2)"
      }
    }
  }
}
`
	s, err := NewLoader().ParseSequence(context.Background(), "custom.hcl", []byte(src), spectrometer.LimeNQR().Registry())
	require.NoError(t, err)

	e, err := s.Event("e")
	require.NoError(t, err)
	p, err := e.Parameter("TX")
	require.NoError(t, err)
	require.Equal(t, "1 - pow(x, 2)", p.(*pulse.TXPulse).Shape().Expression())
}

func TestParseSequence_Errors(t *testing.T) {
	wrap := func(parameter string) string {
		return "sequence \"s\" {\n  event \"e\" {\n    duration = 1 * us\n" + parameter + "\n  }\n}\n"
	}
	option := func(param, option, body string) string {
		return wrap("parameter \"" + param + "\" {\n  option \"" + option + "\" {\n" + body + "\n  }\n}")
	}

	testCases := []struct {
		name   string
		src    string
		target error
	}{
		{"unknown parameter", wrap(`parameter "Decoupler" {}`), pulse.ErrNotFound},
		{"unknown option", option("TX", "Frequency", "value = 1"), pulse.ErrNotFound},
		{"unknown function", option("TX", "TX Pulse Shape", `function = "Triangle"`), pulse.ErrNotFound},
		{"unknown function parameter", option("TX", "TX Pulse Shape", "function = \"Sinc\"\nparameters = { k = 1 }"), pulse.ErrNotFound},
		{"bad numeric", option("TX", "TX Phase", `value = "north"`), pulse.ErrValidation},
		{"non-positive duration", "sequence \"s\" {\n  event \"e\" {\n    duration = 0\n  }\n}\n", pulse.ErrValidation},
		{"unknown unit", "sequence \"s\" {\n  event \"e\" {\n    duration = 3 * fortnights\n  }\n}\n", nil},
		{"value on function option", option("TX", "TX Pulse Shape", `value = "Sinc"`), nil},
		{"function on numeric option", option("TX", "TX Phase", `function = "Sinc"`), nil},
		{"two sequences", "sequence \"a\" {}\nsequence \"b\" {}\n", nil},
	}

	registry := spectrometer.LimeNQR().Registry()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().ParseSequence(context.Background(), "s.hcl", []byte(tc.src), registry)
			require.Error(t, err)
			if tc.target != nil {
				require.ErrorIs(t, err, tc.target)
			}
		})
	}
}

func TestLoadSequences_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "seq.hcl", sequenceHCL)
	writeFile(t, dir, "bench.hcl", profileHCL)
	writeFile(t, dir, "notes.txt", "ignored")

	loader := NewLoader()
	profiles, err := loader.LoadProfiles(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	seqs, err := loader.LoadSequences(context.Background(), profiles[0].Registry(), dir)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	require.Equal(t, "spin-echo", seqs[0].Name())
}
