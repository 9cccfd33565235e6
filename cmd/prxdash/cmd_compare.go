package main

import (
	"fmt"
	"strings"

	"github.com/prxlab/prxdash/internal/reporting"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/spf13/cobra"
)

func newCompareCommand() *cobra.Command {
	var dataset, format string
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every model of a dataset",
		Long: `Compare every model of a dataset in one merged table.

Each style's vector is the element-wise mean of its per-model averages over
the models that scored it. Top-percentile cells are highlighted and the best
merged style is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: must be table or json", format)
			}
			a, err := newApp(cmd, nil)
			if err != nil {
				return err
			}
			vm, err := a.load(cmd, session.Selection{Dataset: dataset})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				return printJSON(out, vm.Merged)
			}

			m := vm.Merged
			fmt.Fprintf(out, "%s: %s\n", vm.Selection.Dataset, strings.Join(m.Models, ", ")) //nolint:errcheck
			if m.BestError != "" {
				fmt.Fprintf(out, "Best merged style: none (%s)\n\n", m.BestError) //nolint:errcheck
			} else {
				fmt.Fprintf(out, "Best merged style: %s (%.2f)\n\n", m.Best, m.BestScore) //nolint:errcheck
			}
			return reporting.WriteTable(out, vm.MetricNames, reporting.MergedTableRows(vm),
				reporting.OptionsFor(out, len(vm.MetricNames)))
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "Dataset to load")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}
