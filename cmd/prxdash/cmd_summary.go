package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/prxlab/prxdash/internal/reporting"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/spf13/cobra"
)

type summaryOptions struct {
	dataset string
	model   string
	format  string
	explain bool
}

func newSummaryCommand() *cobra.Command {
	opts := &summaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show per-style statistics for one model",
		Long: `Show per-style statistics for one model of a dataset.

Prints the best style, the per-style table with top-percentile cells
highlighted, and the family rollup. With no --dataset or --model, the first
configured dataset and its first model that loaded are used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "Dataset to load")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to show")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table | json | markdown | html")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Append a plain-language interpretation")
	return cmd
}

func runSummary(cmd *cobra.Command, opts *summaryOptions) error {
	switch opts.format {
	case "table", "json", "markdown", "html":
	default:
		return fmt.Errorf("unsupported format %q: must be table, json, markdown or html", opts.format)
	}

	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}
	vm, mv, err := a.loadModel(cmd, session.Selection{Dataset: opts.dataset, Model: opts.model})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.format {
	case "json":
		return printJSON(out, struct {
			*session.ViewModel
			Current *session.ModelView `json:"current"`
		}{vm, mv})
	case "markdown":
		_, err := io.WriteString(out, reporting.FormatMarkdown(vm))
		return err
	case "html":
		title := fmt.Sprintf("prxdash: %s / %s", vm.Selection.Dataset, vm.Selection.Model)
		return reporting.RenderHTML(out, title, reporting.FormatMarkdown(vm))
	}

	fmt.Fprintf(out, "%s / %s: %d records, %d styles\n", vm.Selection.Dataset, mv.Model, mv.Records, len(mv.Aggregates)) //nolint:errcheck
	if mv.BestError != "" {
		fmt.Fprintf(out, "Best style: none (%s)\n\n", mv.BestError) //nolint:errcheck
	} else {
		fmt.Fprintf(out, "Best style: %s (%.2f)\n\n", mv.Best, mv.BestScore) //nolint:errcheck
	}

	tableOpts := reporting.OptionsFor(out, len(vm.MetricNames))
	if err := reporting.WriteTable(out, vm.MetricNames, reporting.StyleTableRows(mv), tableOpts); err != nil {
		return err
	}
	if len(mv.Families) > 0 {
		fmt.Fprintln(out, "\nFamilies") //nolint:errcheck
		famOpts := tableOpts
		famOpts.HideCount = true
		if err := reporting.WriteTable(out, vm.MetricNames, reporting.FamilyTableRows(mv), famOpts); err != nil {
			return err
		}
	}
	if opts.explain {
		fmt.Fprintln(out) //nolint:errcheck
		_, err := io.WriteString(out, reporting.FormatSummaryReport(vm))
		return err
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
