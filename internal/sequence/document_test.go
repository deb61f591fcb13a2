package sequence_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/testutil"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_RoundTrip(t *testing.T) {
	original := testutil.SpinEcho(t)
	raw, err := json.Marshal(original)
	require.NoError(t, err)

	loaded, err := sequence.DecodeJSON(context.Background(), raw, testutil.LimeRegistry())
	require.NoError(t, err)

	want, err := original.Dump()
	require.NoError(t, err)
	got, err := loaded.Dump()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeJSON_RejectsInvalidDocuments(t *testing.T) {
	testCases := map[string]string{
		"not json":                     `{"name":`,
		"missing events":               `{"name":"s"}`,
		"negative duration":            `{"name":"s","events":[{"name":"e","duration":-1,"parameters":[]}]}`,
		"option without type":          `{"name":"s","events":[{"name":"e","duration":1e-6,"parameters":[{"name":"RX","value":[{"name":"RX","value":true}]}]}]}`,
		"function value not an object": `{"name":"s","events":[{"name":"e","duration":1e-6,"parameters":[{"name":"TX","value":[{"name":"TX Pulse Shape","value":3,"type":"Function"}]}]}]}`,
	}

	for name, doc := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := sequence.DecodeJSON(context.Background(), []byte(doc), testutil.LimeRegistry())
			require.ErrorIs(t, err, sequence.ErrInvalidDocument)
		})
	}
}

func TestYAML_RoundTrip(t *testing.T) {
	original := testutil.SpinEcho(t)
	rec, err := original.Dump()
	require.NoError(t, err)

	doc, err := sequence.EncodeYAML(rec)
	require.NoError(t, err)
	require.Contains(t, string(doc), "name: spin-echo")
	require.Contains(t, string(doc), "start_x:")

	loaded, err := sequence.DecodeYAML(context.Background(), doc, testutil.LimeRegistry())
	require.NoError(t, err)
	require.Equal(t, original.EventNames(), loaded.EventNames())

	a, err := original.Fingerprint()
	require.NoError(t, err)
	b, err := loaded.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestFingerprint(t *testing.T) {
	a, err := testutil.SpinEcho(t).Fingerprint()
	require.NoError(t, err)
	require.Len(t, a, 64)

	b, err := testutil.SpinEcho(t).Fingerprint()
	require.NoError(t, err)
	require.Equal(t, a, b, "equal structures share a fingerprint")

	changed := testutil.SpinEcho(t)
	e, err := changed.Event("readout")
	require.NoError(t, err)
	require.NoError(t, e.OnDurationChanged(60e-6))
	c, err := changed.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}
