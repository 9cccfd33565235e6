package main

import (
	"fmt"
	"path"
	"slices"
	"strconv"

	"github.com/prxlab/prxdash/internal/aggregate"
	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/reporting"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/spf13/cobra"
)

type topOptions struct {
	dataset      string
	model        string
	metric       string
	n            int
	instructions string
	format       string
}

func newTopCommand() *cobra.Command {
	opts := &topOptions{}
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the best individual prompts per metric",
		Long: `Show the best individual (prompt, style) pairs for each metric.

Only style arrays with a usable score for every metric are considered.
Pairs are ordered by score, then by the style's average on that metric, then
by prompt count. When the dataset has an instruction file, each pair is shown
with its paraphrased instruction text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTop(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "Dataset to load")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to rank")
	cmd.Flags().StringVar(&opts.metric, "metric", "", "Metric number (1-based) or name; default all metrics")
	cmd.Flags().IntVarP(&opts.n, "n", "n", 0, "Pairs per metric (default from config)")
	cmd.Flags().StringVar(&opts.instructions, "instructions", "", "Instruction file under the dataset, overriding the config")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func runTop(cmd *cobra.Command, opts *topOptions) error {
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: must be table or json", opts.format)
	}
	a, err := newApp(cmd, nil)
	if err != nil {
		return err
	}

	metricsToRank := make([]int, a.cfg.MetricCount())
	for i := range metricsToRank {
		metricsToRank[i] = i
	}
	if opts.metric != "" {
		m, err := parseMetric(opts.metric, a.cfg.Metrics.Names)
		if err != nil {
			return err
		}
		metricsToRank = []int{m}
	}
	n := opts.n
	if n <= 0 {
		n = a.cfg.TopN()
	}

	vm, mv, err := a.loadModel(cmd, session.Selection{Dataset: opts.dataset, Model: opts.model})
	if err != nil {
		return err
	}

	ds, err := a.cfg.Dataset(vm.Selection.Dataset)
	if err != nil {
		return err
	}
	if opts.instructions != "" {
		ds.Instructions = opts.instructions
	}
	instructions, err := a.loader.LoadInstructions(cmd.Context(), ds)
	if err != nil {
		return fmt.Errorf("loading instructions %s: %w", path.Join(ds.Path(), ds.Instructions), err)
	}

	var prompts []models.TopPrompt
	for _, m := range metricsToRank {
		prompts = append(prompts, aggregate.TopPrompts(mv.ScoreRecords(), mv.Aggregates, instructions, m, n)...)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		if prompts == nil {
			prompts = []models.TopPrompt{}
		}
		return printJSON(out, prompts)
	}
	return reporting.WriteTopPrompts(out, vm.MetricNames, prompts, reporting.OptionsFor(out, 0))
}

// parseMetric accepts a metric name or a 1-based metric number.
func parseMetric(s string, names []string) (int, error) {
	if i := slices.Index(names, s); i >= 0 {
		return i, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(names) {
		return 0, fmt.Errorf("unknown metric %q: use a name or a number from 1 to %d", s, len(names))
	}
	return n - 1, nil
}
