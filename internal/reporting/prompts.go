package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/prxlab/prxdash/internal/models"
)

// WriteTopPrompts lists the best (prompt, style) pairs grouped by metric.
func WriteTopPrompts(w io.Writer, metricNames []string, prompts []models.TopPrompt, opts TableOptions) error {
	title := color.New(color.Bold)
	if opts.Color {
		title.EnableColor()
	} else {
		title.DisableColor()
	}

	var b strings.Builder
	last := -1
	for _, tp := range prompts {
		if tp.Metric != last {
			if last >= 0 {
				b.WriteString("\n")
			}
			name := fmt.Sprintf("M%d", tp.Metric+1)
			if tp.Metric < len(metricNames) {
				name = metricNames[tp.Metric]
			}
			b.WriteString(title.Sprint(name) + "\n")
			last = tp.Metric
		}
		id := tp.PromptID
		if id == "" {
			id = fmt.Sprintf("#%d", tp.PromptCount)
		}
		style := tp.Style
		if opts.MaxNameWidth > 0 {
			style = truncateName(style, opts.MaxNameWidth)
		}
		fmt.Fprintf(&b, "  %-6s %5.2f  %s  %s\n", tp.ExampleID, tp.Score, pad(id, 8, true), style)
		if tp.Text != "" {
			fmt.Fprintf(&b, "         %s\n", oneLine(tp.Text, 100))
		}
	}
	if len(prompts) == 0 {
		b.WriteString("no complete score arrays found\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func oneLine(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	return truncateName(s, maxLen)
}
