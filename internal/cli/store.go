package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/pulseduck/internal/seqstore"
	"github.com/spf13/cobra"
)

func (s *session) newStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the sequence library",
	}
	cmd.AddCommand(
		s.newStoreSaveCommand(),
		s.newStoreListCommand(),
		s.newStoreShowCommand(),
		s.newStoreHistoryCommand(),
		s.newStoreDeleteCommand(),
	)
	return cmd
}

func (s *session) newStoreSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Store a sequence file as a new revision",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, partial, err := s.load(cmd, a[0])
			if err != nil {
				return err
			}
			if partial != nil {
				return fmt.Errorf("refusing to store a partially loaded sequence: %w", partial)
			}
			entry, err := s.app.SaveSequence(cmd.Context(), seq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %q revision %s (%s)\n", entry.Name, entry.Revision, shortFingerprint(entry.Fingerprint))
			return nil
		},
	}
}

func (s *session) newStoreListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest revision of every stored sequence",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := s.app.Store(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			return renderEntries(cmd, entries)
		},
	}
}

func (s *session) newStoreHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <name>",
		Short: "List every revision of a stored sequence",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			store, err := s.app.Store(cmd.Context())
			if err != nil {
				return err
			}
			entries, err := store.History(cmd.Context(), a[0])
			if err != nil {
				return err
			}
			return renderEntries(cmd, entries)
		},
	}
}

func (s *session) newStoreShowCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the latest stored revision of a sequence",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, _, err := s.app.LoadStored(cmd.Context(), a[0])
			if seq == nil {
				return err
			}
			if err != nil {
				s.app.Logger().Warn("Stored sequence loaded with skipped parameters.", "sequence", a[0], "error", err)
			}
			rec, err := seq.Dump()
			if err != nil {
				return err
			}
			return writeDocument(cmd.OutOrStdout(), rec, strings.ToLower(format))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "Output format. Options: 'json' or 'yaml'.")
	return cmd
}

func (s *session) newStoreDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove every revision of a stored sequence",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			store, err := s.app.Store(cmd.Context())
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), a[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", a[0])
			return nil
		},
	}
}

func renderEntries(cmd *cobra.Command, entries []seqstore.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no sequences stored")
		return nil
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Name, e.Spectrometer, e.Revision.String(), e.SavedAt.Local().Format(time.DateTime), shortFingerprint(e.Fingerprint)}
	}
	return renderTable(cmd.OutOrStdout(), []string{"Name", "Spectrometer", "Revision", "Saved", "Fingerprint"}, rows)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
