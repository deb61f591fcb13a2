package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/specialistvlad/pulseduck/internal/sequence"
)

// Document formats accepted by --format.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func renderTable(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeDocument(w io.Writer, rec sequence.Record, format string) error {
	var out []byte
	var err error
	switch format {
	case formatJSON:
		out, err = json.MarshalIndent(rec, "", "  ")
		out = append(out, '\n')
	case formatYAML:
		out, err = sequence.EncodeYAML(rec)
	default:
		return usageError(fmt.Errorf("invalid format %q: must be %q or %q", format, formatJSON, formatYAML))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64) + " s"
}
