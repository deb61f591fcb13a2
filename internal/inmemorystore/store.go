// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the seqstore.Store interface.
//
// Each sequence name maps to its own revision history. Histories are
// independent, so the store uses sync.Map keyed by name and a small mutex
// per history for appends.
package inmemorystore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

type history struct {
	mu        sync.Mutex
	revisions []seqstore.Entry
}

// Store is an in-memory implementation of seqstore.Store.
type Store struct {
	histories sync.Map // Key: sequence name, Value: *history
	now       func() time.Time
}

// New creates a new, empty in-memory sequence library.
func New() *Store {
	return &Store{now: time.Now}
}

var _ seqstore.Store = (*Store)(nil)

// Save appends a revision unless the latest one has the same fingerprint.
func (s *Store) Save(ctx context.Context, spectrometer string, rec sequence.Record) (seqstore.Entry, error) {
	entry, err := seqstore.NewEntry(spectrometer, rec, s.now())
	if err != nil {
		return seqstore.Entry{}, err
	}

	v, _ := s.histories.LoadOrStore(rec.Name, &history{})
	h := v.(*history)
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.revisions); n > 0 && h.revisions[n-1].Fingerprint == entry.Fingerprint {
		return h.revisions[n-1], nil
	}
	h.revisions = append(h.revisions, entry)
	return entry, nil
}

// Get returns the latest revision of name.
func (s *Store) Get(ctx context.Context, name string) (seqstore.Entry, error) {
	revs, err := s.History(ctx, name)
	if err != nil {
		return seqstore.Entry{}, err
	}
	return revs[len(revs)-1], nil
}

// List returns the latest revision of every stored sequence, sorted by name.
func (s *Store) List(ctx context.Context) ([]seqstore.Entry, error) {
	var out []seqstore.Entry
	s.histories.Range(func(_, v any) bool {
		h := v.(*history)
		h.mu.Lock()
		if n := len(h.revisions); n > 0 {
			out = append(out, h.revisions[n-1])
		}
		h.mu.Unlock()
		return true
	})
	slices.SortFunc(out, func(a, b seqstore.Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// History returns all revisions of name, oldest first.
func (s *Store) History(ctx context.Context, name string) ([]seqstore.Entry, error) {
	v, ok := s.histories.Load(name)
	if !ok {
		return nil, seqstore.NotFound(name)
	}
	h := v.(*history)
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.revisions) == 0 {
		return nil, seqstore.NotFound(name)
	}
	return slices.Clone(h.revisions), nil
}

// Delete removes every revision of name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, ok := s.histories.LoadAndDelete(name); !ok {
		return seqstore.NotFound(name)
	}
	return nil
}
