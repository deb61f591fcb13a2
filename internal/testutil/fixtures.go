package testutil

import (
	"testing"

	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/waveform"
	"github.com/stretchr/testify/require"
)

// LimeRegistry mirrors the parameter set of the built-in LimeNQR profile
// without depending on the spectrometer package.
func LimeRegistry() pulse.Registry {
	return pulse.Registry{
		"TX":      func(name string) pulse.PulseParameter { return pulse.NewTXPulse(name) },
		"RX":      func(name string) pulse.PulseParameter { return pulse.NewRXReadout(name) },
		"TX Gate": func(name string) pulse.PulseParameter { return pulse.NewGate(name) },
	}
}

// SpinEcho builds the two-event sequence used across tests: an "excite"
// event of 10 µs with a full-amplitude sinc pulse on "TX" and a "readout"
// event of 50 µs with "RX" switched on.
func SpinEcho(t *testing.T) *sequence.Sequence {
	t.Helper()

	tx := pulse.NewTXPulse("TX")
	SetOption(t, tx, pulse.OptionRelativeAmplitude, 1.0)
	SetOption(t, tx, pulse.OptionTXPulseShape, waveform.Sinc)

	rx := pulse.NewRXReadout("RX")
	SetOption(t, rx, pulse.OptionRX, true)

	excite, err := sequence.NewEvent("excite", 10e-6)
	require.NoError(t, err)
	require.NoError(t, excite.AddParameter("TX", tx))

	readout, err := sequence.NewEvent("readout", 50e-6)
	require.NoError(t, err)
	require.NoError(t, readout.AddParameter("RX", rx))

	s := sequence.New("spin-echo")
	require.NoError(t, s.AddEvent(excite))
	require.NoError(t, s.AddEvent(readout))
	return s
}

// SetOption sets one option of p and fails the test on error.
func SetOption(t *testing.T, p pulse.PulseParameter, name string, value any) {
	t.Helper()
	o, err := p.OptionByName(name)
	require.NoError(t, err)
	require.NoError(t, o.SetValue(value))
}
