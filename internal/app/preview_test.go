package app_test

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/pulseduck/internal/app"
	"github.com/specialistvlad/pulseduck/internal/preview"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	event   string
	payload any
}

type recordingEmitter struct {
	mu   sync.Mutex
	sent []emitted
}

func (r *recordingEmitter) Emit(event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, emitted{event, payload})
	return nil
}

func (r *recordingEmitter) Close() error { return nil }

func (r *recordingEmitter) events() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.sent...)
}

func sequenceJSON(t *testing.T, s *sequence.Sequence) []byte {
	t.Helper()
	rec, err := s.Dump()
	require.NoError(t, err)
	doc, err := json.Marshal(rec)
	require.NoError(t, err)
	return doc
}

func TestWatchFile_PublishesChangedKeys(t *testing.T) {
	a, logs := newTestApp(t, app.Config{})
	edited := testutil.SpinEcho(t)
	path := writeFile(t, t.TempDir(), "seq.json", sequenceJSON(t, edited))

	watched, err := a.LoadSequence(context.Background(), path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	em := &recordingEmitter{}
	done := make(chan error, 1)
	go func() { done <- a.WatchFile(ctx, path, watched, em, 5*time.Millisecond) }()

	require.Eventually(t, func() bool { return len(em.events()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, preview.EventSequence, em.events()[0].event)

	excite, err := edited.Event("excite")
	require.NoError(t, err)
	tx, err := excite.Parameter("TX")
	require.NoError(t, err)
	testutil.SetOption(t, tx, pulse.OptionRelativeAmplitude, 0)
	require.NoError(t, os.WriteFile(path, sequenceJSON(t, edited), 0o644))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	require.Eventually(t, func() bool { return len(em.events()) == 2 }, 2*time.Second, 5*time.Millisecond)
	got := em.events()[1]
	assert.Equal(t, preview.EventParameter, got.event)
	assert.Equal(t, preview.ParameterKey{Sequence: "spin-echo", Event: "excite", Parameter: "TX", Kind: pulse.KindTXPulse, Key: pulse.PreviewOff}, got.payload)

	cancel()
	require.NoError(t, <-done)
	assert.Contains(t, logs.String(), "Stopped watching sequence file.")
}

func TestWatchFile_Rejects(t *testing.T) {
	a, _ := newTestApp(t, app.Config{})
	path := writeFile(t, t.TempDir(), "seq.json", sequenceJSON(t, testutil.SpinEcho(t)))

	err := a.WatchFile(context.Background(), path, testutil.SpinEcho(t), &recordingEmitter{}, 0)
	require.ErrorContains(t, err, "must be positive")

	err = a.WatchFile(context.Background(), path+".gone", testutil.SpinEcho(t), &recordingEmitter{}, time.Millisecond)
	require.ErrorIs(t, err, os.ErrNotExist)
}
