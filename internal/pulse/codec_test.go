package pulse

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pulseduck/internal/waveform"
	"github.com/stretchr/testify/require"
)

func TestRecord_Shape(t *testing.T) {
	rec, err := NewNumericOption("TX Phase", 90).Record()
	require.NoError(t, err)

	raw, err := json.Marshal(rec)
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"TX Phase","value":90,"type":"Numeric"}`, string(raw))
}

func TestDecodeOption_RoundTrip(t *testing.T) {
	fn, err := NewFunctionOption("TX Pulse Shape", waveform.Shapes()...)
	require.NoError(t, err)
	require.NoError(t, fn.Select(waveform.Sinc))
	l, err := fn.Function().ParameterBySymbol("l")
	require.NoError(t, err)
	require.NoError(t, l.SetValue(3.5))

	options := []Option{
		NewBooleanOption("RX", true),
		NewNumericOption("Relative TX Amplitude", 0.75),
		fn,
	}

	for _, original := range options {
		t.Run(original.Type(), func(t *testing.T) {
			rec, err := original.Record()
			require.NoError(t, err)

			decoded, err := DecodeOption(rec)
			require.NoError(t, err)
			require.Equal(t, original.Name(), decoded.Name())
			require.Equal(t, original.Type(), decoded.Type())

			again, err := decoded.Record()
			require.NoError(t, err)
			require.JSONEq(t, string(rec.Value), string(again.Value))
		})
	}
}

func TestDecodeOption_FunctionIsReselectedAmongChoices(t *testing.T) {
	src := waveform.NewGaussian()
	rec := Record{Name: "TX Pulse Shape", Type: TypeFunction}
	var err error
	rec.Value, err = json.Marshal(src.Record())
	require.NoError(t, err)

	decoded, err := DecodeOption(rec)
	require.NoError(t, err)

	fo := decoded.(*FunctionOption)
	require.Equal(t, waveform.Gaussian, fo.Function().Name())
	byName, err := fo.FunctionByName(waveform.Gaussian)
	require.NoError(t, err)
	require.Same(t, fo.Function(), byName)

	var names []string
	for _, c := range fo.Choices() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff(waveform.ShapeNames(), names); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOption_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		record Record
		target error
	}{
		{"unknown tag", Record{Name: "X", Type: "Complex", Value: json.RawMessage(`1`)}, ErrUnregisteredType},
		{"missing value", Record{Name: "X", Type: TypeNumeric}, ErrValidation},
		{"non numeric", Record{Name: "X", Type: TypeNumeric, Value: json.RawMessage(`"abc"`)}, ErrValidation},
		{"unknown function", Record{Name: "X", Type: TypeFunction, Value: json.RawMessage(`{"name":"Triangle","expression":"x","parameters":[],"resolution":1,"start_x":-1,"end_x":1}`)}, ErrUnregisteredType},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeOption(tc.record)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestOptionTypes_AllDecodable(t *testing.T) {
	for _, tag := range OptionTypes() {
		_, ok := codecs[tag]
		require.True(t, ok, tag)
	}
}
