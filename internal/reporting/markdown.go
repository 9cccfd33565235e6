package reporting

import (
	"fmt"
	"strings"

	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/session"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMarkdown renders the selected model of vm, plus the cross-model
// merge, as a GitHub-flavored Markdown report. Highlighted cells are bold.
func FormatMarkdown(vm *session.ViewModel) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "# %s / %s\n\n", vm.Selection.Dataset, vm.Selection.Model)
	fmt.Fprintf(&b, "Generated %s.\n\n", vm.GeneratedAt.Format("2006-01-02 15:04 MST"))

	mv := vm.Current()
	if mv == nil {
		fmt.Fprintf(&b, "Model `%s` did not load.\n\n", vm.Selection.Model)
	} else {
		writeModelSections(&b, p, vm, mv)
	}

	if vm.Merged != nil && len(vm.ModelOrder) > 1 {
		b.WriteString("## All models\n\n")
		fmt.Fprintf(&b, "Element-wise mean over %s.\n\n", strings.Join(vm.ModelOrder, ", "))
		if vm.Merged.BestError != "" {
			fmt.Fprintf(&b, "Best merged style: none (%s).\n\n", vm.Merged.BestError)
		} else {
			fmt.Fprintf(&b, "Best merged style: `%s` (%.2f).\n\n", vm.Merged.Best, vm.Merged.BestScore)
		}
		writeMarkdownTable(&b, vm.MetricNames, MergedTableRows(vm), "Models")
	}

	if len(vm.Failures) > 0 {
		b.WriteString("## Fetch failures\n\n")
		for _, f := range vm.Failures {
			fmt.Fprintf(&b, "- `%s` (%s): %s\n", f.Name, f.Model, escapeCell(f.Error))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeModelSections(b *strings.Builder, p *message.Printer, vm *session.ViewModel, mv *session.ModelView) {
	b.WriteString(p.Sprintf("%d records from %d file(s), %d styles.\n\n", mv.Records, mv.Files, len(mv.Aggregates)))

	if mv.BestError != "" {
		fmt.Fprintf(b, "**Best style:** none (%s).\n\n", mv.BestError)
	} else {
		fmt.Fprintf(b, "**Best style:** `%s` with %.2f, %s.\n\n", mv.Best, mv.BestScore, InterpretScore(mv.BestScore))
	}

	if len(mv.TopStyles) > 0 {
		b.WriteString("## Top styles\n\n| Rank | Style | Average |\n| ---: | --- | ---: |\n")
		for _, r := range mv.TopStyles {
			fmt.Fprintf(b, "| %d | `%s` | %.2f |\n", r.Rank, r.Style, r.Score)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Styles\n\n")
	writeMarkdownTable(b, vm.MetricNames, StyleTableRows(mv), "N")

	if len(mv.Families) > 0 {
		b.WriteString("## Families\n\n")
		writeMarkdownTable(b, vm.MetricNames, FamilyTableRows(mv), "Members")
	}

	if len(mv.Baseline) > 0 {
		fmt.Fprintf(b, "## Against `%s`\n\n| Style | Delta | Improved | Regressed |\n| --- | ---: | ---: | ---: |\n", vm.BaselineStyle)
		for _, d := range mv.Baseline {
			fmt.Fprintf(b, "| `%s` | %+.2f | %d | %d |\n", d.Style, d.OverallDelta, d.Improved, d.Regressed)
		}
		b.WriteString("\n")
	}

	if len(mv.Variability) > 0 {
		b.WriteString("## Metric variability\n\n| Metric | Min | Max | Mean | Samples |\n| --- | ---: | ---: | ---: | ---: |\n")
		for _, v := range mv.Variability {
			b.WriteString(p.Sprintf("| %s | %.2f | %.2f | %.2f | %d |\n", variabilityName(v), v.Min, v.Max, v.Mean, v.Samples))
		}
		b.WriteString("\n")
	}
}

func writeMarkdownTable(b *strings.Builder, metricNames []string, rows []TableRow, countLabel string) {
	b.WriteString("| Style | " + countLabel)
	for _, name := range metricNames {
		b.WriteString(" | " + escapeCell(name))
	}
	b.WriteString(" | Average |\n| --- | ---:")
	for range metricNames {
		b.WriteString(" | ---:")
	}
	b.WriteString(" | ---: |\n")

	for _, row := range rows {
		fmt.Fprintf(b, "| `%s` | %d", row.Name, row.Count)
		for i := range metricNames {
			cell := formatCell(row.Values, i, row.Unscored)
			if i < len(row.Highlight) && row.Highlight[i] {
				cell = "**" + cell + "**"
			}
			b.WriteString(" | " + cell)
		}
		if row.Unscored {
			b.WriteString(" | - |\n")
		} else {
			fmt.Fprintf(b, " | %.2f |\n", row.Overall)
		}
	}
	b.WriteString("\n")
}

func variabilityName(v models.MetricVariability) string {
	name := v.Name
	if name == "" {
		name = fmt.Sprintf("M%d", v.Metric+1)
	}
	if v.NoVariability && v.Samples > 0 {
		name += " (flat)"
	}
	return escapeCell(name)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
