package cli

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/pulseduck/internal/spectrometer"
	"github.com/spf13/cobra"
)

func (s *session) newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and exchange spectrometer settings files",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the settings of the active spectrometer",
		Args:  args(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderSettings(cmd, s.app.Profile())
		},
	}

	save := &cobra.Command{
		Use:   "save <path>",
		Short: "Write the default settings of the active spectrometer",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			if err := s.app.Profile().SaveSettingsFile(a[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "settings of %q written to %s\n", s.app.Profile().Name(), a[0])
			return nil
		},
	}

	load := &cobra.Command{
		Use:   "load <path>",
		Short: "Check a settings file against the active spectrometer and print the result",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			err := s.app.Profile().LoadSettingsFile(s.app.Context(cmd.Context()), a[0])
			if err != nil && !errors.Is(err, spectrometer.ErrMissingSettings) {
				return err
			}
			if rerr := renderSettings(cmd, s.app.Profile()); rerr != nil {
				return rerr
			}
			return err
		},
	}

	cmd.AddCommand(show, save, load)
	return cmd
}

func renderSettings(cmd *cobra.Command, p *spectrometer.Profile) error {
	var rows [][]string
	for _, category := range p.Categories() {
		for _, st := range p.SettingsIn(category) {
			rows = append(rows, []string{category, st.Name(), fmt.Sprint(st.GoValue()), st.Description()})
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "spectrometer %q\n", p.Name())
	return renderTable(cmd.OutOrStdout(), []string{"Category", "Setting", "Value", "Description"}, rows)
}
