package reporting

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/prxlab/prxdash/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleTableRows_Order(t *testing.T) {
	rows := StyleTableRows(sampleView().Current())
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"instruct_formal", models.BaselineStyle, "instruct_casual", "text"}, names)
	assert.True(t, rows[3].Unscored)
}

func TestWriteTable_Plain(t *testing.T) {
	vm := sampleView()
	var buf bytes.Buffer
	err := WriteTable(&buf, vm.MetricNames, StyleTableRows(vm.Current()), TableOptions{})
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[0], "Style"))
	assert.Contains(t, lines[0], "M1")
	assert.Contains(t, lines[0], "Avg")
	assert.Contains(t, lines[2], "instruct_formal")
	assert.Contains(t, lines[2], "9.00")
	assert.Contains(t, lines[2], "8.00")
	assert.NotContains(t, out, "\x1b[", "no escape codes without color")
	assert.Contains(t, out, "M1  Fluency")

	var textLine string
	for _, l := range lines {
		if strings.HasPrefix(l, "text") {
			textLine = l
		}
	}
	assert.Contains(t, textLine, "-")
	assert.NotContains(t, textLine, "0.00")
}

func TestWriteTable_ColumnsAligned(t *testing.T) {
	rows := []TableRow{
		{Name: "a", Count: 1, Values: []float64{1}, Overall: 1},
		{Name: "instruct_日本語", Count: 10, Values: []float64{10}, Overall: 10},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"m"}, rows, TableOptions{}))

	lines := strings.Split(buf.String(), "\n")
	// wide runes take two columns, so the display widths match
	assert.Equal(t, displayWidth(lines[2]), displayWidth(lines[3]))
}

func TestWriteTable_Color(t *testing.T) {
	vm := sampleView()
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, vm.MetricNames, StyleTableRows(vm.Current()), TableOptions{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestWriteTable_Truncate(t *testing.T) {
	rows := []TableRow{{Name: "instruct_very_long_style_name", Values: []float64{1}}}
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, []string{"m"}, rows, TableOptions{MaxNameWidth: 10, HideCount: true}))
	assert.Contains(t, buf.String(), "…")
	assert.NotContains(t, buf.String(), "instruct_very_long_style_name")
	assert.NotContains(t, buf.String(), " N ")
}

func TestMergedTableRows(t *testing.T) {
	rows := MergedTableRows(sampleView())
	require.NotEmpty(t, rows)
	assert.Equal(t, "instruct_formal", rows[0].Name)
	assert.Equal(t, 2, rows[0].Count)
	assert.InDeltaSlice(t, []float64{8, 7}, rows[0].Values, 1e-9)
}

func TestOptionsFor_NotTerminal(t *testing.T) {
	var buf bytes.Buffer
	opts := OptionsFor(&buf, 10)
	assert.False(t, opts.Color)
	assert.Zero(t, opts.MaxNameWidth)
	assert.False(t, IsTerminal(&buf))
	assert.Zero(t, TerminalWidth(&buf))
}

func TestWriteTopPrompts(t *testing.T) {
	prompts := []models.TopPrompt{
		{ExampleID: "1_1", Metric: 0, PromptCount: 4, Style: "instruct_formal", Score: 9, Text: "Write  a\nformal note"},
		{ExampleID: "2_1", Metric: 1, PromptID: "p-7", Style: "instruct_casual", Score: 8},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTopPrompts(&buf, []string{"Fluency", "Accuracy"}, prompts, TableOptions{}))
	out := buf.String()
	assert.Contains(t, out, "Fluency\n")
	assert.Contains(t, out, "#4")
	assert.Contains(t, out, "Write a formal note")
	assert.Contains(t, out, "Accuracy\n")
	assert.Contains(t, out, "p-7")

	buf.Reset()
	require.NoError(t, WriteTopPrompts(&buf, nil, nil, TableOptions{}))
	assert.Contains(t, buf.String(), "no complete score arrays")
}

func displayWidth(s string) int {
	return runewidth.StringWidth(strings.TrimRight(s, " "))
}
