package reporting

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/session"
	"golang.org/x/term"
)

// TableRow is one line of a score table.
type TableRow struct {
	Name      string
	Count     int
	Values    []float64
	Overall   float64
	Highlight []bool
	// Unscored rows print dashes instead of zeros.
	Unscored bool
}

// TableOptions controls WriteTable output.
type TableOptions struct {
	// Color highlights cells at or above their metric's threshold.
	Color bool
	// MaxNameWidth truncates the name column; zero means no limit.
	MaxNameWidth int
	// HideCount drops the count column.
	HideCount bool
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of w, or 0 when w is not a terminal.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// OptionsFor picks table options suited to w.
func OptionsFor(w io.Writer, metricCount int) TableOptions {
	opts := TableOptions{Color: IsTerminal(w)}
	if width := TerminalWidth(w); width > 0 {
		// name + count + one column per metric + overall, 8 cells each
		if rest := width - 8*(metricCount+2); rest > 12 {
			opts.MaxNameWidth = rest
		} else {
			opts.MaxNameWidth = 12
		}
	}
	return opts
}

// WriteTable writes rows as an aligned table. Metric columns are labelled
// M1..Mn and a legend maps the labels back to metricNames.
func WriteTable(w io.Writer, metricNames []string, rows []TableRow, opts TableOptions) error {
	hl := color.New(color.FgGreen, color.Bold)
	if opts.Color {
		hl.EnableColor()
	} else {
		hl.DisableColor()
	}

	header := []string{"Style"}
	if !opts.HideCount {
		header = append(header, "N")
	}
	for i := range metricNames {
		header = append(header, fmt.Sprintf("M%d", i+1))
	}
	header = append(header, "Avg")

	cells := make([][]string, len(rows))
	for r, row := range rows {
		name := row.Name
		if opts.MaxNameWidth > 0 {
			name = truncateName(name, opts.MaxNameWidth)
		}
		line := []string{name}
		if !opts.HideCount {
			line = append(line, fmt.Sprintf("%d", row.Count))
		}
		for i := range metricNames {
			line = append(line, formatCell(row.Values, i, row.Unscored))
		}
		if row.Unscored {
			line = append(line, "-")
		} else {
			line = append(line, fmt.Sprintf("%.2f", row.Overall))
		}
		cells[r] = line
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, line := range cells {
		for i, c := range line {
			widths[i] = max(widths[i], runewidth.StringWidth(c))
		}
	}

	var b strings.Builder
	for i, h := range header {
		writeCell(&b, h, widths[i], i == 0)
	}
	b.WriteString("\n")
	for i := range header {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("─", widths[i]))
	}
	b.WriteString("\n")

	firstMetric := 1
	if !opts.HideCount {
		firstMetric = 2
	}
	for r, line := range cells {
		for i, c := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			padded := pad(c, widths[i], i == 0)
			m := i - firstMetric
			if m >= 0 && m < len(metricNames) && m < len(rows[r].Highlight) && rows[r].Highlight[m] {
				padded = hl.Sprint(padded)
			}
			b.WriteString(padded)
		}
		b.WriteString("\n")
	}

	if len(metricNames) > 0 {
		b.WriteString("\n")
		for i, name := range metricNames {
			fmt.Fprintf(&b, "  M%-2d %s\n", i+1, name)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// StyleTableRows returns a model's styles, highest overall average first and
// unscored styles last.
func StyleTableRows(mv *session.ModelView) []TableRow {
	rows := make([]TableRow, 0, len(mv.Aggregates))
	for _, style := range mv.Aggregates.Styles() {
		e := mv.Aggregates[style]
		rows = append(rows, TableRow{
			Name:      style,
			Count:     e.Count,
			Values:    e.Averages,
			Overall:   e.OverallAverage,
			Highlight: mv.Highlight[style],
			Unscored:  !e.Scored(),
		})
	}
	sortRows(rows)
	return rows
}

// FamilyTableRows returns a model's family rollup in configured order.
func FamilyTableRows(mv *session.ModelView) []TableRow {
	rows := make([]TableRow, 0, len(mv.Families))
	for _, f := range mv.Families {
		rows = append(rows, TableRow{
			Name:    f.Name,
			Count:   len(f.Members),
			Values:  f.Averages,
			Overall: f.Overall,
		})
	}
	return rows
}

// MergedTableRows returns the merged vectors, highest mean first. Count is
// the number of models carrying the style.
func MergedTableRows(vm *session.ViewModel) []TableRow {
	m := vm.Merged
	if m == nil {
		return nil
	}
	rows := make([]TableRow, 0, len(m.Vectors))
	for style, vec := range m.Vectors {
		n := 0
		for _, model := range vm.ModelOrder {
			if mv := vm.Models[model]; mv != nil && mv.Aggregates[style].Scored() {
				n++
			}
		}
		rows = append(rows, TableRow{
			Name:      style,
			Count:     n,
			Values:    vec,
			Overall:   metrics.Mean(vec),
			Highlight: m.Highlight[style],
		})
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []TableRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Unscored != rows[j].Unscored {
			return !rows[i].Unscored
		}
		if rows[i].Overall != rows[j].Overall {
			return rows[i].Overall > rows[j].Overall
		}
		return rows[i].Name < rows[j].Name
	})
}

func formatCell(values []float64, i int, unscored bool) string {
	if unscored || i >= len(values) {
		return "-"
	}
	return fmt.Sprintf("%.2f", values[i])
}

func writeCell(b *strings.Builder, s string, width int, first bool) {
	if !first {
		b.WriteString("  ")
	}
	b.WriteString(pad(s, width, first))
}

// pad left-aligns the name column and right-aligns numbers.
func pad(s string, width int, left bool) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	if left {
		return s + strings.Repeat(" ", width-sw)
	}
	return strings.Repeat(" ", width-sw) + s
}

// truncateName shortens a name to maxLen runes, replacing the last rune with "…" if needed.
func truncateName(name string, maxLen int) string {
	if runewidth.StringWidth(name) <= maxLen {
		return name
	}
	return runewidth.Truncate(name, maxLen, "…")
}
