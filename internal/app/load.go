package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

// SequenceFormats lists the file extensions LoadSequence understands.
var SequenceFormats = []string{".json", ".yaml", ".yml", ".hcl"}

// LoadSequence reads the sequence at path against the active profile's
// registry, choosing the decoder by extension. A *sequence.PartialLoadError
// comes back together with a usable sequence.
func (a *App) LoadSequence(ctx context.Context, path string) (*sequence.Sequence, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading sequence file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sequence file: %w", err)
	}
	return a.DecodeSequence(ctx, path, data)
}

// DecodeSequence decodes data as if it had been read from filename.
func (a *App) DecodeSequence(ctx context.Context, filename string, data []byte) (*sequence.Sequence, error) {
	ctx = a.Context(ctx)
	reg := a.Registry()

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".json":
		return sequence.DecodeJSON(ctx, data, reg)
	case ".yaml", ".yml":
		return sequence.DecodeYAML(ctx, data, reg)
	case ".hcl":
		if a.loader == nil {
			return nil, fmt.Errorf("cannot read %s: no HCL loader configured", filename)
		}
		return a.loader.ParseSequence(ctx, filename, data, reg)
	default:
		return nil, &pulse.ValidationError{
			Field:  "sequence file",
			Value:  filename,
			Reason: fmt.Sprintf("unsupported extension %q, expected one of %s", ext, strings.Join(SequenceFormats, ", ")),
		}
	}
}

// SaveSequence stores s in the library under the active profile's name.
func (a *App) SaveSequence(ctx context.Context, s *sequence.Sequence) (seqstore.Entry, error) {
	ctx = a.Context(ctx)
	store, err := a.Store(ctx)
	if err != nil {
		return seqstore.Entry{}, err
	}
	rec, err := s.Dump()
	if err != nil {
		return seqstore.Entry{}, err
	}
	entry, err := store.Save(ctx, a.profile.Name(), rec)
	if err != nil {
		return seqstore.Entry{}, err
	}
	a.logger.Info("Sequence saved.", "sequence", entry.Name, "revision", entry.Revision, "fingerprint", entry.Fingerprint)
	return entry, nil
}

// LoadStored rebuilds the latest stored revision of name.
func (a *App) LoadStored(ctx context.Context, name string) (*sequence.Sequence, seqstore.Entry, error) {
	ctx = a.Context(ctx)
	store, err := a.Store(ctx)
	if err != nil {
		return nil, seqstore.Entry{}, err
	}
	entry, err := store.Get(ctx, name)
	if err != nil {
		return nil, seqstore.Entry{}, err
	}
	if entry.Spectrometer != a.profile.Name() {
		a.logger.Warn("Stored sequence was saved for another spectrometer.", "sequence", name, "saved_for", entry.Spectrometer, "active", a.profile.Name())
	}
	rec, err := entry.Record()
	if err != nil {
		return nil, entry, err
	}
	s, err := sequence.Load(ctx, rec, a.Registry())
	return s, entry, err
}
