package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prxlab/prxdash/internal/scorefile"
	"github.com/prxlab/prxdash/internal/utils"
	"github.com/spf13/cobra"
)

type checkOptions struct {
	last    int
	base    string
	format  string
	metrics int
}

// fileReport is the check result for one score file.
type fileReport struct {
	Path           string            `json:"path"`
	Records        int               `json:"records"`
	SchemaErrors   []string          `json:"schemaErrors,omitempty"`
	Issues         []scorefile.Issue `json:"issues,omitempty"`
	MissingPrompts []int             `json:"missingPrompts,omitempty"`
	Error          string            `json:"error,omitempty"`
}

func (r fileReport) ok() bool {
	return r.Error == "" && len(r.SchemaErrors) == 0 && len(r.Issues) == 0 && len(r.MissingPrompts) == 0
}

func newCheckCommand() *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check <score-file> [score-file ...]",
		Short: "Validate score files",
		Long: `Validate score files before publishing them.

Arguments may be files, directories (their .json and .json.gz files) or glob
patterns; relative ones are resolved against --base.

Each file (plain or gzip-compressed JSON) is checked against the score file
schema, then decoded leniently to list fields aggregation would skip:
non-array style values and arrays with missing or non-numeric scores.
With --last N, prompt counts 1..N missing from the file are reported.

Exits with status 1 when any file has a problem.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
	cmd.Flags().IntVar(&opts.last, "last", 0, "Expected highest prompt_count; report gaps in 1..N")
	cmd.Flags().StringVar(&opts.base, "base", ".", "Directory relative paths are resolved against")
	cmd.Flags().IntVar(&opts.metrics, "metrics", 0, "Score vector length (default from config)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text | json")
	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, args []string) error {
	if opts.format != "text" && opts.format != "json" {
		return fmt.Errorf("unsupported format %q: must be text or json", opts.format)
	}
	metricCount := opts.metrics
	if metricCount <= 0 {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		metricCount = cfg.MetricCount()
	}

	var reports []fileReport
	failed := 0
	for _, p := range utils.ResolvePaths(args, opts.base) {
		r := checkFile(p, metricCount, opts.last)
		if !r.ok() {
			failed++
		}
		reports = append(reports, r)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		if err := printJSON(out, reports); err != nil {
			return err
		}
	} else {
		printCheckText(out, reports)
	}

	if failed > 0 {
		return &CheckFailureError{Message: fmt.Sprintf("%d of %d file(s) have problems", failed, len(reports))}
	}
	return nil
}

func checkFile(path string, metricCount, last int) fileReport {
	r := fileReport{Path: path}
	f, err := os.Open(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	rd, err := scorefile.NewReader(f)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	data, err := io.ReadAll(rd)
	rd.Close() //nolint:errcheck
	if err != nil {
		r.Error = fmt.Sprintf("reading: %v", err)
		return r
	}

	r.SchemaErrors = scorefile.Validate(data, metricCount)

	records, err := scorefile.DecodeScores(bytes.NewReader(data), metricCount)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Records = len(records)
	r.Issues = scorefile.FindIssues(records)
	if last > 0 {
		r.MissingPrompts = scorefile.MissingPromptCounts(records, last)
	}
	return r
}

func printCheckText(w io.Writer, reports []fileReport) {
	for _, r := range reports {
		if r.ok() {
			fmt.Fprintf(w, "✓ %s: %d records\n", r.Path, r.Records) //nolint:errcheck
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", r.Path) //nolint:errcheck
		if r.Error != "" {
			fmt.Fprintf(w, "    error: %s\n", r.Error) //nolint:errcheck
		}
		for _, e := range r.SchemaErrors {
			fmt.Fprintf(w, "    schema: %s\n", e) //nolint:errcheck
		}
		for _, is := range r.Issues {
			fmt.Fprintf(w, "    %s\n", is) //nolint:errcheck
		}
		if len(r.MissingPrompts) > 0 {
			fmt.Fprintf(w, "    missing prompt_count: %s\n", joinInts(r.MissingPrompts)) //nolint:errcheck
		}
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
