package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/pulseduck/internal/preview"
	"github.com/specialistvlad/pulseduck/internal/pulse"
	"github.com/specialistvlad/pulseduck/internal/sequence"
	"github.com/spf13/cobra"
)

// load reads a sequence file. A partial load is logged and the usable
// sequence returned with it.
func (s *session) load(cmd *cobra.Command, path string) (*sequence.Sequence, *sequence.PartialLoadError, error) {
	seq, err := s.app.LoadSequence(cmd.Context(), path)
	var partial *sequence.PartialLoadError
	if errors.As(err, &partial) && seq != nil {
		s.app.Logger().Warn("Sequence loaded with skipped parameters.", "path", path, "skipped", len(partial.Mismatches))
		return seq, partial, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return seq, nil, nil
}

func (s *session) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Load a sequence and report parameters the spectrometer cannot use",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, partial, err := s.load(cmd, a[0])
			if err != nil {
				return err
			}
			fp, err := seq.Fingerprint()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sequence %q: %d events, total duration %s\n", seq.Name(), len(seq.Events()), seconds(seq.TotalDuration()))
			fmt.Fprintf(out, "fingerprint: %s\n", fp)

			rows := make([][]string, 0, len(seq.Events()))
			for _, e := range seq.Events() {
				rows = append(rows, []string{e.Name(), seconds(e.Duration()), strings.Join(e.ParameterNames(), ", ")})
			}
			if err := renderTable(out, []string{"Event", "Duration", "Parameters"}, rows); err != nil {
				return err
			}

			if partial == nil {
				return nil
			}
			for _, m := range partial.Mismatches {
				fmt.Fprintf(out, "skipped: %s\n", m)
			}
			return &ExitError{Code: 1, Message: fmt.Sprintf("%d parameters do not match spectrometer %q", len(partial.Mismatches), s.app.Profile().Name())}
		},
	}
}

func (s *session) newDumpCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the persisted document of a sequence",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, _, err := s.load(cmd, a[0])
			if err != nil {
				return err
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

func (s *session) newSampleCommand() *cobra.Command {
	var eventName, paramName, optionName string
	var resolution float64
	cmd := &cobra.Command{
		Use:   "sample <file>",
		Short: "Evaluate the function option of one parameter over its event",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, _, err := s.load(cmd, a[0])
			if err != nil {
				return err
			}
			e, err := seq.Event(eventName)
			if err != nil {
				return err
			}
			p, err := e.Parameter(paramName)
			if err != nil {
				return err
			}
			fo, err := functionOption(p, optionName)
			if err != nil {
				return err
			}

			f := fo.Function().Clone()
			if resolution != 0 {
				if err := f.SetResolution(resolution); err != nil {
					return usageError(err)
				}
			}
			values, err := f.Evaluate(e.Duration(), 0)
			if err != nil {
				return err
			}
			times, err := f.TimePoints(e.Duration())
			if err != nil {
				return err
			}
			s.app.Logger().Debug("Function sampled.", "function", f.Name(), "samples", len(values))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "time\tvalue")
			for i, v := range values {
				fmt.Fprintf(out, "%s\t%s\n", strconv.FormatFloat(times[i], 'g', -1, 64), strconv.FormatFloat(v, 'g', -1, 64))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&eventName, "event", "e", "", "Name of the event.")
	cmd.Flags().StringVarP(&paramName, "parameter", "p", "", "Name of the pulse parameter.")
	cmd.Flags().StringVarP(&optionName, "option", "o", "", "Name of the function option. Defaults to the first one.")
	cmd.Flags().Float64Var(&resolution, "resolution", 0, "Sample spacing in seconds. Defaults to the function's own.")
	_ = cmd.MarkFlagRequired("event")
	_ = cmd.MarkFlagRequired("parameter")
	return cmd
}

func functionOption(p pulse.PulseParameter, name string) (*pulse.FunctionOption, error) {
	if name != "" {
		o, err := p.OptionByName(name)
		if err != nil {
			return nil, err
		}
		fo, ok := o.(*pulse.FunctionOption)
		if !ok {
			return nil, &pulse.ValidationError{Field: "option", Value: name, Reason: fmt.Sprintf("is %s, not %s", o.Type(), pulse.TypeFunction)}
		}
		return fo, nil
	}
	for _, o := range p.Options() {
		if fo, ok := o.(*pulse.FunctionOption); ok {
			return fo, nil
		}
	}
	return nil, &pulse.NotFoundError{Kind: "function option", Name: pulse.TypeFunction, In: "parameter " + p.Name()}
}

func (s *session) newPreviewCommand() *cobra.Command {
	var opts preview.DialOptions
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show the preview key of every parameter, optionally publishing them over socket.io",
		Args:  args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, a []string) error {
			seq, _, err := s.load(cmd, a[0])
			if err != nil {
				return err
			}

			snap := preview.Take(seq)
			var rows [][]string
			for _, e := range snap.Events {
				for _, p := range e.Parameters {
					rows = append(rows, []string{e.Name, p.Parameter, p.Kind, p.Key})
				}
			}
			if err := renderTable(cmd.OutOrStdout(), []string{"Event", "Parameter", "Kind", "Preview"}, rows); err != nil {
				return err
			}

			if opts.URL == "" {
				if watch {
					return usageError(errors.New("--watch requires --url"))
				}
				return nil
			}
			if !watch {
				return s.app.Publish(cmd.Context(), seq, opts)
			}

			emitter, err := s.app.DialPreview(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer s.app.ClosePreview(emitter)
			return s.app.WatchFile(cmd.Context(), a[0], seq, emitter, interval)
		},
	}
	cmd.Flags().StringVar(&opts.URL, "url", "", "socket.io server to publish the preview to.")
	cmd.Flags().StringVar(&opts.Namespace, "namespace", "/", "socket.io namespace.")
	cmd.Flags().BoolVar(&opts.InsecureSkipVerify, "insecure", false, "Skip TLS certificate verification.")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "Connection timeout.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep publishing preview changes whenever the file changes, until interrupted.")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "How often --watch checks the file.")
	return cmd
}
