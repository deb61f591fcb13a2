package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/specialistvlad/pulseduck/internal/measurement"
	"github.com/spf13/cobra"
)

func (s *session) newMeasurementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "measurement <file>",
		Short: "Summarize a saved measurement",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			m, err := measurement.Load(a[0])
			if err != nil {
				return err
			}
			s.app.Logger().Debug("Loaded measurement.", "path", a[0], "samples", m.Len())

			span, peak := "-", "-"
			if m.Len() > 0 {
				tdx := m.TDX()
				span = seconds(tdx[len(tdx)-1] - tdx[0])
				peak = strconv.FormatFloat(slices.Max(m.Magnitude()), 'g', 6, 64)
			}
			rows := [][]string{
				{"Samples", strconv.Itoa(m.Len())},
				{"Time span", span},
				{"Target frequency", hertz(m.TargetFrequency())},
				{"IF frequency", hertz(m.IFFrequency())},
				{"Peak magnitude", peak},
			}
			return renderTable(cmd.OutOrStdout(), []string{"Field", "Value"}, rows)
		},
	}
}

func hertz(v float64) string {
	return fmt.Sprintf("%s Hz", strconv.FormatFloat(v, 'g', -1, 64))
}
