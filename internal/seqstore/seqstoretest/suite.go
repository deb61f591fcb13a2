// Package seqstoretest holds the behavior every seqstore.Store must show.
package seqstoretest

import (
	"context"
	"sync"
	"testing"

	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises a store built fresh by newStore for every subtest.
func Run(t *testing.T, newStore func(t *testing.T) seqstore.Store) {
	t.Run("save and get", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		rec := spinEcho(t)

		saved, err := s.Save(ctx, "LimeNQR", rec)
		require.NoError(t, err)
		assert.Equal(t, "spin-echo", saved.Name)
		assert.Equal(t, "LimeNQR", saved.Spectrometer)
		assert.Len(t, saved.Fingerprint, 64)

		got, err := s.Get(ctx, "spin-echo")
		require.NoError(t, err)
		assert.Equal(t, saved.Revision, got.Revision)
		assert.JSONEq(t, string(saved.Document), string(got.Document))

		back, err := got.Record()
		require.NoError(t, err)
		loaded, err := sequence.Load(ctx, back, testutil.LimeRegistry())
		require.NoError(t, err)
		assert.Equal(t, []string{"excite", "readout"}, loaded.EventNames())
	})

	t.Run("unchanged save keeps the revision", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.Save(ctx, "LimeNQR", spinEcho(t))
		require.NoError(t, err)
		second, err := s.Save(ctx, "LimeNQR", spinEcho(t))
		require.NoError(t, err)
		assert.Equal(t, first.Revision, second.Revision)

		history, err := s.History(ctx, "spin-echo")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})

	t.Run("changed save appends a revision", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		first, err := s.Save(ctx, "LimeNQR", spinEcho(t))
		require.NoError(t, err)

		rec := spinEcho(t)
		rec.Events[1].Duration = 80e-6
		second, err := s.Save(ctx, "LimeNQR", rec)
		require.NoError(t, err)
		assert.NotEqual(t, first.Revision, second.Revision)
		assert.NotEqual(t, first.Fingerprint, second.Fingerprint)

		history, err := s.History(ctx, "spin-echo")
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, first.Revision, history[0].Revision)

		latest, err := s.Get(ctx, "spin-echo")
		require.NoError(t, err)
		assert.Equal(t, second.Revision, latest.Revision)
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for _, name := range []string{"tau-scan", "fid", "spin-echo"} {
			rec := spinEcho(t)
			rec.Name = name
			_, err := s.Save(ctx, "LimeNQR", rec)
			require.NoError(t, err)
		}

		entries, err := s.List(ctx)
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"fid", "spin-echo", "tau-scan"}, names)
	})

	t.Run("missing and deleted", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, sequence.ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, "nope"), sequence.ErrNotFound)

		_, err = s.Save(ctx, "LimeNQR", spinEcho(t))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "spin-echo"))
		_, err = s.Get(ctx, "spin-echo")
		require.ErrorIs(t, err, sequence.ErrNotFound)

		entries, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("rejects unnamed sequences", func(t *testing.T) {
		_, err := newStore(t).Save(context.Background(), "LimeNQR", sequence.Record{})
		require.ErrorIs(t, err, sequence.ErrValidation)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		rec := spinEcho(t)

		var wg sync.WaitGroup
		errs := make(chan error, 8)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Save(ctx, "LimeNQR", rec)
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		history, err := s.History(ctx, "spin-echo")
		require.NoError(t, err)
		assert.Len(t, history, 1)
	})
}

func spinEcho(t *testing.T) sequence.Record {
	t.Helper()
	rec, err := testutil.SpinEcho(t).Dump()
	require.NoError(t, err)
	return rec
}
