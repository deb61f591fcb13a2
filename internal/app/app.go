package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/specialistvlad/pulseduck/internal/ctxlog"
	"github.com/specialistvlad/pulseduck/internal/inmemorystore"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/specialistvlad/pulseduck/internal/spectrometer"
	"github.com/specialistvlad/pulseduck/internal/sqlitestore"
)

// Loader reads HCL sources. It is satisfied by *hcl_adapter.Loader.
type Loader interface {
	LoadProfiles(ctx context.Context, paths ...string) ([]*spectrometer.Profile, error)
	ParseSequence(ctx context.Context, filename string, src []byte, registry pulse.Registry) (*sequence.Sequence, error)
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	config  *Config
	logger  *slog.Logger
	loader  Loader
	profile *spectrometer.Profile

	storeOnce sync.Once
	store     seqstore.Store
	closeDB   func() error
	storeErr  error
}

// NewApp configures logging to logW and resolves the active spectrometer
// profile.
func NewApp(ctx context.Context, logW io.Writer, cfg *Config, loader Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	a := &App{config: cfg, logger: logger, loader: loader}

	profile, err := a.resolveProfile(ctx)
	if err != nil {
		return nil, err
	}
	a.profile = profile
	logger.Debug("Spectrometer profile selected.", "spectrometer", profile.Name(), "parameters", profile.Registry().Names())

	return a, nil
}

// Context returns ctx carrying the application's logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Profile returns the active spectrometer profile.
func (a *App) Profile() *spectrometer.Profile { return a.profile }

// Registry returns the pulse parameter registry of the active profile.
func (a *App) Registry() pulse.Registry { return a.profile.Registry() }

func (a *App) resolveProfile(ctx context.Context) (*spectrometer.Profile, error) {
	logger := ctxlog.FromContext(ctx)

	var loaded []*spectrometer.Profile
	if a.config.ProfilesPath != "" {
		if a.loader == nil {
			return nil, fmt.Errorf("profiles path %q given but no HCL loader configured", a.config.ProfilesPath)
		}
		var err error
		loaded, err = a.loader.LoadProfiles(ctx, a.config.ProfilesPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load spectrometer profiles: %w", err)
		}
		logger.Debug("Spectrometer profiles loaded.", "count", len(loaded))
	}

	name := a.config.Spectrometer
	if name == "" {
		switch len(loaded) {
		case 1:
			return loaded[0], nil
		case 0:
			name = defaultProfile
		default:
			names := make([]string, len(loaded))
			for i, p := range loaded {
				names[i] = p.Name()
			}
			sort.Strings(names)
			return nil, fmt.Errorf("several spectrometer profiles found (%s): choose one with --spectrometer", strings.Join(names, ", "))
		}
	}

	for _, p := range loaded {
		if p.Name() == name {
			return p, nil
		}
	}
	if ctor, ok := builtinProfiles[name]; ok {
		return ctor(), nil
	}
	return nil, &pulse.NotFoundError{Kind: "spectrometer", Name: name, In: "profiles"}
}

// Store opens the sequence library on first use: SQLite when a database
// path is configured, otherwise an in-process store.
func (a *App) Store(ctx context.Context) (seqstore.Store, error) {
	a.storeOnce.Do(func() {
		ctx = a.Context(ctx)
		if a.config.DBPath == "" {
			a.logger.Debug("No database configured, using in-memory sequence library.")
			a.store = inmemorystore.New()
			return
		}
		db, err := sqlitestore.Open(ctx, a.config.DBPath)
		if err != nil {
			a.storeErr = fmt.Errorf("failed to open sequence library: %w", err)
			return
		}
		a.store, a.closeDB = db, db.Close
	})
	return a.store, a.storeErr
}

// Close releases the sequence library, if one was opened.
func (a *App) Close() error {
	if a.closeDB == nil {
		return nil
	}
	a.logger.Debug("Closing sequence library.")
	return a.closeDB()
}
