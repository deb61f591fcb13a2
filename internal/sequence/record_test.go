package sequence_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/testutil"
	"github.com/specialistvlad/pulseduck/internal/waveform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDump_PersistedShape(t *testing.T) {
	rec, err := testutil.SpinEcho(t).Dump()
	require.NoError(t, err)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var doc struct {
		Name   string `json:"name"`
		Events []struct {
			Name       string  `json:"name"`
			Duration   float64 `json:"duration"`
			Parameters []struct {
				Name  string `json:"name"`
				Value []struct {
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"value"`
			} `json:"parameters"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))

	require.Equal(t, "spin-echo", doc.Name)
	require.Len(t, doc.Events, 2)
	tx := doc.Events[0].Parameters[0]
	require.Equal(t, "TX", tx.Name)
	require.Len(t, tx.Value, 3)
	assert.Equal(t, pulse.OptionRelativeAmplitude, tx.Value[0].Name)
	assert.Equal(t, pulse.TypeNumeric, tx.Value[0].Type)
	assert.Equal(t, pulse.OptionTXPulseShape, tx.Value[2].Name)
	assert.Equal(t, pulse.TypeFunction, tx.Value[2].Type)
}

func TestLoad_SpinEchoEndToEnd(t *testing.T) {
	ctx, _ := testutil.LoggerContext(t)
	original := testutil.SpinEcho(t)

	rec, err := original.Dump()
	require.NoError(t, err)

	loaded, err := sequence.Load(ctx, rec, testutil.LimeRegistry())
	require.NoError(t, err)

	require.Equal(t, []string{"excite", "readout"}, loaded.EventNames())
	excite, err := loaded.Event("excite")
	require.NoError(t, err)
	require.Equal(t, 10e-6, excite.Duration())

	p, err := excite.Parameter("TX")
	require.NoError(t, err)
	tx := p.(*pulse.TXPulse)
	require.Equal(t, 1.0, tx.Amplitude())
	require.Equal(t, waveform.Sinc, tx.Shape().Name())
	l, err := tx.Shape().ParameterByName("Scale Factor")
	require.NoError(t, err)
	require.Equal(t, 2.0, l.Value)

	readout, err := loaded.Event("readout")
	require.NoError(t, err)
	rx, err := readout.Parameter("RX")
	require.NoError(t, err)
	require.Equal(t, pulse.PreviewOn, rx.PreviewKey())

	again, err := loaded.Dump()
	require.NoError(t, err)
	if diff := cmp.Diff(rec, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_SkipsParametersUnknownToRegistry(t *testing.T) {
	ctx, logs := testutil.LoggerContext(t)
	rec, err := testutil.SpinEcho(t).Dump()
	require.NoError(t, err)

	registry := testutil.LimeRegistry()
	delete(registry, "RX")

	loaded, err := sequence.Load(ctx, rec, registry)
	require.NoError(t, err, "a missing registry entry is not an error")

	readout, err := loaded.Event("readout")
	require.NoError(t, err)
	require.Empty(t, readout.ParameterNames())
	require.Contains(t, logs.String(), "parameter=RX")
}

func TestLoad_LayoutMismatchIsPartial(t *testing.T) {
	ctx, logs := testutil.LoggerContext(t)
	rec, err := testutil.SpinEcho(t).Dump()
	require.NoError(t, err)

	// Drop the phase option of the stored TX pulse.
	tx := &rec.Events[0].Parameters[0]
	tx.Value = append(tx.Value[:1], tx.Value[2:]...)

	loaded, err := sequence.Load(ctx, rec, testutil.LimeRegistry())
	require.ErrorIs(t, err, sequence.ErrPartialLoad)
	require.ErrorIs(t, err, sequence.ErrSchemaMismatch)
	require.ErrorIs(t, err, pulse.ErrLayoutMismatch)
	require.NotNil(t, loaded)

	var partial *sequence.PartialLoadError
	require.ErrorAs(t, err, &partial)
	require.Len(t, partial.Mismatches, 1)
	require.Equal(t, "excite", partial.Mismatches[0].Event)
	require.Equal(t, "TX", partial.Mismatches[0].Parameter)

	excite, err := loaded.Event("excite")
	require.NoError(t, err)
	require.Empty(t, excite.ParameterNames())

	readout, err := loaded.Event("readout")
	require.NoError(t, err)
	require.Equal(t, []string{"RX"}, readout.ParameterNames())
	require.Contains(t, logs.String(), "level=WARN")
}

func TestLoad_FatalErrors(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(rec *sequence.Record)
		target error
	}{
		{
			name: "unregistered option type",
			mutate: func(rec *sequence.Record) {
				rec.Events[1].Parameters[0].Value[0].Type = "Complex"
			},
			target: sequence.ErrUnregisteredType,
		},
		{
			name: "unregistered function",
			mutate: func(rec *sequence.Record) {
				rec.Events[0].Parameters[0].Value[2].Value = json.RawMessage(`{"name":"Triangle","expression":"x","parameters":[],"resolution":1e-7,"start_x":-1,"end_x":1}`)
			},
			target: sequence.ErrUnregisteredType,
		},
		{
			name: "non-positive duration",
			mutate: func(rec *sequence.Record) {
				rec.Events[0].Duration = 0
			},
			target: sequence.ErrValidation,
		},
		{
			name: "duplicate parameter",
			mutate: func(rec *sequence.Record) {
				rec.Events[1].Parameters = append(rec.Events[1].Parameters, rec.Events[1].Parameters[0])
			},
			target: sequence.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, err := testutil.SpinEcho(t).Dump()
			require.NoError(t, err)
			tc.mutate(&rec)

			loaded, err := sequence.Load(context.Background(), rec, testutil.LimeRegistry())
			require.ErrorIs(t, err, tc.target)
			require.Nil(t, loaded)
		})
	}
}

func TestLoad_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	registry := testutil.LimeRegistry()

	properties.Property("load(dump(s)) dumps identically", prop.ForAll(
		func(durations []float64, amplitude, phase float64, shape int, rxOn, gateOn bool) bool {
			s := sequence.New("generated")
			for i, d := range durations {
				e, err := sequence.NewEvent(eventName(i), d)
				if err != nil {
					return false
				}
				tx := pulse.NewTXPulse("TX")
				if setOption(tx, pulse.OptionRelativeAmplitude, amplitude) != nil ||
					setOption(tx, pulse.OptionTXPhase, phase) != nil ||
					setOption(tx, pulse.OptionTXPulseShape, waveform.ShapeNames()[shape]) != nil {
					return false
				}
				rx := pulse.NewRXReadout("RX")
				gate := pulse.NewGate("TX Gate")
				if setOption(rx, pulse.OptionRX, rxOn) != nil || setOption(gate, pulse.OptionGateState, gateOn) != nil {
					return false
				}
				if e.AddParameter("TX", tx) != nil || e.AddParameter("RX", rx) != nil || e.AddParameter("TX Gate", gate) != nil {
					return false
				}
				if s.AddEvent(e) != nil {
					return false
				}
			}

			rec, err := s.Dump()
			if err != nil {
				return false
			}
			loaded, err := sequence.Load(context.Background(), rec, registry)
			if err != nil {
				return false
			}
			again, err := loaded.Dump()
			if err != nil {
				return false
			}
			return cmp.Equal(rec, again)
		},
		gen.SliceOfN(4, gen.Float64Range(1e-9, 1e-3)),
		gen.Float64Range(0, 1),
		gen.Float64Range(-360, 360),
		gen.IntRange(0, len(waveform.ShapeNames())-1),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func eventName(i int) string {
	return "event-" + string(rune('a'+i))
}

func setOption(p pulse.PulseParameter, name string, value any) error {
	o, err := p.OptionByName(name)
	if err != nil {
		return err
	}
	return o.SetValue(value)
}
