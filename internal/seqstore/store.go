// Package seqstore defines the interface of the sequence library: a
// persistent, revisioned collection of pulse sequences keyed by name.
//
// # Revisions
//
// Every Save of a sequence whose content differs from the latest stored
// revision creates a new revision with a fresh UUID. Content is compared by
// the canonical fingerprint of the persisted document (see
// sequence.Fingerprint), so saving an unchanged sequence is a no-op that
// returns the existing revision.
//
// # Spectrometer binding
//
// Each entry remembers the spectrometer profile it was saved under. The
// document itself stays spectrometer-agnostic; the binding only tells the
// caller which registry to load it against.
//
// # Implementations
//
//   - internal/inmemorystore: sync.Map backed, for tests and ephemeral use
//   - internal/sqlitestore: modernc.org/sqlite backed, the CLI default
package seqstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

// Entry is one stored revision of a sequence.
type Entry struct {
	Name         string
	Revision     uuid.UUID
	Fingerprint  string
	Spectrometer string
	SavedAt      time.Time
	// Document is the persisted JSON form of the sequence.
	Document []byte
}

// Record decodes the stored document without validating it against a
// registry.
func (e Entry) Record() (sequence.Record, error) {
	var rec sequence.Record
	if err := json.Unmarshal(e.Document, &rec); err != nil {
		return sequence.Record{}, fmt.Errorf("stored sequence %q revision %s: %w", e.Name, e.Revision, err)
	}
	return rec, nil
}

// Store is the interface for the sequence library.
//
// Implementations MUST be safe for concurrent use.
type Store interface {
	// Save stores rec under rec.Name unless the latest revision already has
	// the same fingerprint, in which case that revision is returned.
	Save(ctx context.Context, spectrometer string, rec sequence.Record) (Entry, error)

	// Get returns the latest revision of name, or an error matching
	// sequence.ErrNotFound.
	Get(ctx context.Context, name string) (Entry, error)

	// List returns the latest revision of every sequence, sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// History returns every revision of name, oldest first.
	History(ctx context.Context, name string) ([]Entry, error)

	// Delete removes every revision of name.
	Delete(ctx context.Context, name string) error
}

// NewEntry builds a fresh revision of rec, stamped with now.
func NewEntry(spectrometer string, rec sequence.Record, now time.Time) (Entry, error) {
	if rec.Name == "" {
		return Entry{}, &pulse.ValidationError{Field: "sequence name", Value: rec.Name, Reason: "must not be empty"}
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding sequence %q: %w", rec.Name, err)
	}
	fp, err := sequence.Fingerprint(rec)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:         rec.Name,
		Revision:     uuid.New(),
		Fingerprint:  fp,
		Spectrometer: spectrometer,
		SavedAt:      now.UTC(),
		Document:     doc,
	}, nil
}

// NotFound returns the error stores report for an unknown name.
func NotFound(name string) error {
	return &pulse.NotFoundError{Kind: "sequence", Name: name, In: "library"}
}
