package reporting

import (
	"fmt"
	"strings"

	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/session"
)

// InterpretScore returns a plain-language label for a judge score (0–10).
func InterpretScore(score float64) string {
	switch {
	case score > 9:
		return "Excellent (>9)"
	case score >= 7:
		return "Good (7-9)"
	case score >= 5:
		return "Needs Work (5-7)"
	default:
		return "Poor (<5)"
	}
}

// InterpretDelta explains an overall delta against the baseline style.
func InterpretDelta(delta float64) string {
	switch {
	case delta >= 0.5:
		return fmt.Sprintf("clearly better than the original instruction (+%.2f)", delta)
	case delta > 0:
		return fmt.Sprintf("slightly better than the original instruction (+%.2f)", delta)
	case delta == 0:
		return "same as the original instruction"
	case delta > -0.5:
		return fmt.Sprintf("slightly worse than the original instruction (%.2f)", delta)
	default:
		return fmt.Sprintf("clearly worse than the original instruction (%.2f)", delta)
	}
}

// InterpretVariability flags metrics the judge did not discriminate on.
func InterpretVariability(v models.MetricVariability) string {
	name := v.Name
	if name == "" {
		name = fmt.Sprintf("metric %d", v.Metric+1)
	}
	if v.Samples == 0 {
		return fmt.Sprintf("%s: no scores", name)
	}
	if v.NoVariability {
		return fmt.Sprintf("%s: every score is %.2f, the metric does not separate styles", name, v.Min)
	}
	return fmt.Sprintf("%s: scores range %.2f to %.2f (mean %.2f)", name, v.Min, v.Max, v.Mean)
}

// FormatSummaryReport produces a plain-language report for the selected model.
func FormatSummaryReport(vm *session.ViewModel) string {
	var b strings.Builder

	b.WriteString("=== Interpretation ===\n\n")

	mv := vm.Current()
	if mv == nil {
		fmt.Fprintf(&b, "Model %s did not load.\n", vm.Selection.Model)
		return b.String()
	}

	if mv.BestError != "" {
		fmt.Fprintf(&b, "Best style:    none (%s)\n", mv.BestError)
	} else {
		fmt.Fprintf(&b, "Best style:    %s %.2f — %s\n", mv.Best, mv.BestScore, InterpretScore(mv.BestScore))
	}
	if base, ok := mv.Aggregates[vm.BaselineStyle]; ok && base.Scored() {
		fmt.Fprintf(&b, "Original:      %.2f — %s\n", base.OverallAverage, InterpretScore(base.OverallAverage))
	}
	fmt.Fprintf(&b, "Records:       %d across %d file(s)\n", mv.Records, mv.Files)

	if len(mv.Baseline) > 0 {
		b.WriteString("\nAgainst the original instruction:\n")
		for _, d := range mv.Baseline {
			icon := "✓"
			if d.OverallDelta < 0 {
				icon = "✗"
			}
			fmt.Fprintf(&b, "  %s %s: %s\n", icon, d.Style, InterpretDelta(d.OverallDelta))
		}
	} else if mv.BaselineErr != "" {
		fmt.Fprintf(&b, "\nNo baseline comparison: %s\n", mv.BaselineErr)
	}

	if len(mv.Variability) > 0 {
		b.WriteString("\nMetric spread:\n")
		for _, v := range mv.Variability {
			fmt.Fprintf(&b, "  %s\n", InterpretVariability(v))
		}
	}
	return b.String()
}
