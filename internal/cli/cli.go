package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/specialistvlad/pulseduck/internal/app"
	"github.com/specialistvlad/pulseduck/internal/hcl_adapter"
	"github.com/spf13/cobra"
)

// EnvDB names the environment variable consulted when --db is not given.
const EnvDB = "PULSEDUCK_DB"

const defaultDB = "pulseduck.db"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// globals are the values of the root's persistent flags.
type globals struct {
	logLevel     string
	logFormat    string
	profiles     string
	spectrometer string
	db           string
}

// session holds the App built once the global flags are parsed.
type session struct {
	flags globals
	errW  io.Writer
	app   *app.App
}

// Execute runs the command tree against args. Output goes to outW, logs and
// diagnostics to errW. Every returned error is an *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	s := &session{errW: errW}
	defer s.close()

	root := s.rootCommand(outW)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	for _, prefix := range []string{"unknown command", "required flag"} {
		if strings.HasPrefix(err.Error(), prefix) {
			return usageError(err)
		}
	}
	return &ExitError{Code: 1, Message: err.Error()}
}

// rootCommand assembles the pulseduck command tree.
func (s *session) rootCommand(outW io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "pulseduck",
		Short: "NQR pulse sequence toolkit",
		Long: `pulseduck loads, validates, samples, previews and stores pulse sequences
for NQR spectrometers.

Sequence files may be JSON or YAML documents in the persisted format, or
HCL files with a single sequence block.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: s.open,
	}
	root.SetOut(outW)
	root.SetErr(s.errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	db := os.Getenv(EnvDB)
	if db == "" {
		db = defaultDB
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.flags.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&s.flags.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&s.flags.profiles, "profiles", "", "Path to an HCL file or directory with spectrometer profiles.")
	pf.StringVar(&s.flags.spectrometer, "spectrometer", "", "Name of the spectrometer profile to use. Defaults to the built-in LimeNQR.")
	pf.StringVar(&s.flags.db, "db", db, "Path to the SQLite sequence library. Falls back to $"+EnvDB+".")

	root.AddCommand(
		s.newValidateCommand(),
		s.newDumpCommand(),
		s.newSampleCommand(),
		s.newPreviewCommand(),
		s.newMeasurementCommand(),
		s.newStoreCommand(),
		s.newSettingsCommand(),
	)
	return root
}

func (s *session) open(cmd *cobra.Command, _ []string) error {
	cfg, err := app.NewConfig(app.Config{
		ProfilesPath: s.flags.profiles,
		Spectrometer: s.flags.spectrometer,
		DBPath:       s.flags.db,
		LogFormat:    s.flags.logFormat,
		LogLevel:     s.flags.logLevel,
	})
	if err != nil {
		return usageError(err)
	}

	a, err := app.NewApp(cmd.Context(), s.errW, cfg, hcl_adapter.NewLoader())
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}
	a.Logger().Debug("CLI parser finished successfully.", "command", cmd.CommandPath(), "spectrometer", a.Profile().Name())
	s.app = a
	return nil
}

func (s *session) close() {
	if s.app == nil {
		return
	}
	if err := s.app.Close(); err != nil {
		s.app.Logger().Warn("Closing the application failed.", "error", err)
	}
}

// args wraps a cobra positional-argument check so its failure is a usage error.
func args(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, a []string) error {
		if err := check(cmd, a); err != nil {
			return usageError(err)
		}
		return nil
	}
}
