package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/pulseduck/internal/app"
	"github.com/specialistvlad/pulseduck/internal/hcl_adapter"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/spectrometer"
	"github.com/specialistvlad/pulseduck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const benchProfile = `
spectrometer "Bench" {
  pulse_parameter "TX" {
    kind = tx_pulse
  }
  pulse_parameter "RX" {
    kind = rx_readout
  }
}
`

func newTestApp(t *testing.T, cfg app.Config) (*app.App, *testutil.SafeBuffer) {
	t.Helper()
	cfg.LogLevel = "debug"
	config, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logs := &testutil.SafeBuffer{}
	a, err := app.NewApp(context.Background(), logs, config, hcl_adapter.NewLoader())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, a.Close())
		if os.Getenv("PULSEDUCK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, logs
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func TestNewConfig(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{LogFormat: "JSON"})
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, spectrometer.LimeNQRName, cfg.Spectrometer)

	cfg, err = app.NewConfig(app.Config{ProfilesPath: "profiles"})
	require.NoError(t, err)
	assert.Empty(t, cfg.Spectrometer, "profile choice is deferred to the loaded files")

	_, err = app.NewConfig(app.Config{LogFormat: "xml"})
	require.ErrorContains(t, err, "log-format")

	_, err = app.NewConfig(app.Config{LogLevel: "trace"})
	require.ErrorContains(t, err, "log-level")
}

func TestNewApp_JSONLogs(t *testing.T) {
	cfg, err := app.NewConfig(app.Config{LogFormat: "json", LogLevel: "debug"})
	require.NoError(t, err)

	var logs bytes.Buffer
	_, err = app.NewApp(context.Background(), &logs, cfg, nil)
	require.NoError(t, err)

	line, _, _ := bytes.Cut(logs.Bytes(), []byte("\n"))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "Logger configured successfully.", entry["msg"])
}

func TestNewApp_Profiles(t *testing.T) {
	t.Run("builtin by default", func(t *testing.T) {
		a, _ := newTestApp(t, app.Config{})
		assert.Equal(t, spectrometer.LimeNQRName, a.Profile().Name())
		assert.Equal(t, []string{"RX", "TX", "TX Gate"}, a.Registry().Names())
	})

	t.Run("single hcl profile is selected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bench.hcl", []byte(benchProfile))

		a, _ := newTestApp(t, app.Config{ProfilesPath: dir})
		assert.Equal(t, "Bench", a.Profile().Name())
		assert.Equal(t, []string{"RX", "TX"}, a.Registry().Names())
	})

	t.Run("builtin reachable next to hcl profiles", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "bench.hcl", []byte(benchProfile))

		a, _ := newTestApp(t, app.Config{ProfilesPath: dir, Spectrometer: spectrometer.LimeNQRName})
		assert.Equal(t, spectrometer.LimeNQRName, a.Profile().Name())
	})

	t.Run("unknown name", func(t *testing.T) {
		cfg, err := app.NewConfig(app.Config{Spectrometer: "Tecmag"})
		require.NoError(t, err)
		_, err = app.NewApp(context.Background(), &bytes.Buffer{}, cfg, nil)
		require.ErrorIs(t, err, pulse.ErrNotFound)
	})
}

func TestLoadSequence_Formats(t *testing.T) {
	a, _ := newTestApp(t, app.Config{})
	dir := t.TempDir()

	want := testutil.SpinEcho(t)
	rec, err := want.Dump()
	require.NoError(t, err)
	jsonDoc, err := json.Marshal(rec)
	require.NoError(t, err)
	yamlDoc, err := sequence.EncodeYAML(rec)
	require.NoError(t, err)

	hclDoc := []byte(`
sequence "spin-echo" {
  event "excite" {
    duration = 10 * us
    parameter "TX" {
      option "Relative TX Amplitude" {
        value = 1
      }
      option "TX Pulse Shape" {
        function = "Sinc"
      }
    }
  }
  event "readout" {
    duration = 50 * us
    parameter "RX" {
      option "RX" {
        value = true
      }
    }
  }
}
`)

	wantFP, err := want.Fingerprint()
	require.NoError(t, err)

	for name, data := range map[string][]byte{
		"seq.json": jsonDoc,
		"seq.yaml": yamlDoc,
		"seq.hcl":  hclDoc,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := a.LoadSequence(context.Background(), writeFile(t, dir, name, data))
			require.NoError(t, err)
			assert.Equal(t, []string{"excite", "readout"}, got.EventNames())
			if name != "seq.hcl" {
				fp, err := got.Fingerprint()
				require.NoError(t, err)
				assert.Equal(t, wantFP, fp)
			}
		})
	}

	_, err = a.LoadSequence(context.Background(), writeFile(t, dir, "seq.txt", jsonDoc))
	require.ErrorIs(t, err, pulse.ErrValidation)

	_, err = a.LoadSequence(context.Background(), filepath.Join(dir, "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSequence_PartialAgainstSmallerProfile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bench.hcl", []byte(`
spectrometer "Bench" {
  pulse_parameter "TX" {
    kind = gate
  }
}
`))
	a, logs := newTestApp(t, app.Config{ProfilesPath: dir})

	rec, err := testutil.SpinEcho(t).Dump()
	require.NoError(t, err)
	doc, err := json.Marshal(rec)
	require.NoError(t, err)

	s, err := a.DecodeSequence(context.Background(), "seq.json", doc)
	require.ErrorIs(t, err, sequence.ErrPartialLoad)
	require.NotNil(t, s)
	assert.Empty(t, s.Events()[0].Parameters(), "TX has a gate layout on this profile")
	assert.Empty(t, s.Events()[1].Parameters(), "RX is unknown to this profile")
	assert.Contains(t, logs.String(), "level=WARN")
}

func TestStore_SaveAndLoadStored(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")
	a, _ := newTestApp(t, app.Config{DBPath: dbPath})
	ctx := context.Background()

	s := testutil.SpinEcho(t)
	first, err := a.SaveSequence(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, spectrometer.LimeNQRName, first.Spectrometer)

	again, err := a.SaveSequence(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, first.Revision, again.Revision, "unchanged sequences are not stored twice")

	loaded, entry, err := a.LoadStored(ctx, "spin-echo")
	require.NoError(t, err)
	assert.Equal(t, first.Revision, entry.Revision)
	assert.Equal(t, s.EventNames(), loaded.EventNames())

	_, _, err = a.LoadStored(ctx, "fid")
	require.ErrorIs(t, err, pulse.ErrNotFound)
}

func TestStore_InMemoryWithoutPath(t *testing.T) {
	a, _ := newTestApp(t, app.Config{})
	ctx := context.Background()

	_, err := a.SaveSequence(ctx, testutil.SpinEcho(t))
	require.NoError(t, err)

	store, err := a.Store(ctx)
	require.NoError(t, err)
	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
