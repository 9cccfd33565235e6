package reporting

import (
	"testing"

	"github.com/prxlab/prxdash/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestInterpretScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"excellent high", 9.5, "Excellent (>9)"},
		{"excellent boundary", 9.1, "Excellent (>9)"},
		{"good high", 9.0, "Good (7-9)"},
		{"good mid", 8.0, "Good (7-9)"},
		{"good low", 7.0, "Good (7-9)"},
		{"needs work high", 6.9, "Needs Work (5-7)"},
		{"needs work low", 5.0, "Needs Work (5-7)"},
		{"poor high", 4.9, "Poor (<5)"},
		{"poor zero", 0.0, "Poor (<5)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpretScore(tt.score)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpretDelta(t *testing.T) {
	tests := []struct {
		name     string
		delta    float64
		contains string
	}{
		{"clearly better", 1.2, "clearly better"},
		{"slightly better", 0.2, "slightly better"},
		{"same", 0, "same as"},
		{"slightly worse", -0.2, "slightly worse"},
		{"clearly worse", -2, "clearly worse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, InterpretDelta(tt.delta), tt.contains)
		})
	}
}

func TestInterpretVariability(t *testing.T) {
	tests := []struct {
		name     string
		v        models.MetricVariability
		contains string
	}{
		{"no samples", models.MetricVariability{Name: "Fluency"}, "Fluency: no scores"},
		{"flat", models.MetricVariability{Name: "Fluency", Min: 7, Max: 7, Samples: 3, NoVariability: true}, "does not separate"},
		{"spread", models.MetricVariability{Metric: 2, Min: 1, Max: 9, Mean: 5, Samples: 4}, "metric 3: scores range 1.00 to 9.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, InterpretVariability(tt.v), tt.contains)
		})
	}
}

func TestFormatSummaryReport(t *testing.T) {
	report := FormatSummaryReport(sampleView())

	assert.Contains(t, report, "=== Interpretation ===")
	assert.Contains(t, report, "instruct_formal 8.00")
	assert.Contains(t, report, "Good (7-9)")
	assert.Contains(t, report, "Original:      5.00")
	assert.Contains(t, report, "✓ instruct_formal: clearly better")
	assert.Contains(t, report, "✗ instruct_casual: clearly worse")
	assert.Contains(t, report, "Metric spread:")
}

func TestFormatSummaryReport_ModelMissing(t *testing.T) {
	vm := sampleView()
	vm.Selection.Model = "llama"
	report := FormatSummaryReport(vm)
	assert.Contains(t, report, "Model llama did not load.")
}

func TestFormatSummaryReport_NoBaseline(t *testing.T) {
	vm := sampleView()
	vm.Selection.Model = "qwen"
	report := FormatSummaryReport(vm)
	assert.Contains(t, report, "No baseline comparison")
	assert.NotContains(t, report, "Original:")
}
