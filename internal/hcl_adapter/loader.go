package hcl_adapter

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/fsutil"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/spectrometer"
)

// FileExtension is the extension discovered when a directory is given.
const FileExtension = ".hcl"

// Loader reads spectrometer profiles and authored pulse sequences from HCL.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadProfiles decodes every spectrometer block found under paths.
func (l *Loader) LoadProfiles(ctx context.Context, paths ...string) ([]*spectrometer.Profile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL profile loading started.", "path_count", len(paths))

	roots, err := l.parse(ctx, paths)
	if err != nil {
		return nil, err
	}

	var profiles []*spectrometer.Profile
	seen := make(map[string]bool)
	for _, root := range roots {
		for _, block := range root.Spectrometers {
			if seen[block.Name] {
				return nil, fmt.Errorf("spectrometer %q is declared more than once", block.Name)
			}
			seen[block.Name] = true

			p, err := l.translateProfile(ctx, block)
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, p)
		}
	}

	logger.Debug("HCL profile loading complete.", "profiles", len(profiles))
	return profiles, nil
}

// LoadSequences decodes every sequence block found under paths. Authored
// files are strict: parameters and options must exist in registry.
func (l *Loader) LoadSequences(ctx context.Context, registry pulse.Registry, paths ...string) ([]*sequence.Sequence, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL sequence loading started.", "path_count", len(paths))

	roots, err := l.parse(ctx, paths)
	if err != nil {
		return nil, err
	}

	var seqs []*sequence.Sequence
	for _, root := range roots {
		for _, block := range root.Sequences {
			s, err := l.translateSequence(ctx, block, registry)
			if err != nil {
				return nil, err
			}
			seqs = append(seqs, s)
		}
	}

	logger.Debug("HCL sequence loading complete.", "sequences", len(seqs))
	return seqs, nil
}

// ParseSequence decodes the single sequence block of one in-memory file.
func (l *Loader) ParseSequence(ctx context.Context, filename string, src []byte, registry pulse.Registry) (*sequence.Sequence, error) {
	root, err := l.decode(hclparse.NewParser(), filename, src)
	if err != nil {
		return nil, err
	}
	if len(root.Sequences) != 1 {
		return nil, fmt.Errorf("file %s must contain exactly one sequence block, found %d", filename, len(root.Sequences))
	}
	return l.translateSequence(ctx, root.Sequences[0], registry)
}

func (l *Loader) parse(ctx context.Context, paths []string) ([]*fileRoot, error) {
	files, err := fsutil.CollectFiles(paths, FileExtension)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	roots := make([]*fileRoot, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		root, err := l.decode(parser, file, src)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func (l *Loader) decode(parser *hclparse.Parser, filename string, src []byte) (*fileRoot, error) {
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	return &root, nil
}
