package aggregate

import (
	"fmt"
	"sort"

	"github.com/prxlab/prxdash/internal/models"
)

type promptCandidate struct {
	rec    *models.ScoreRecord
	style  string
	scores []float64
}

// TopPrompts picks the n best individual (prompt, style) pairs for a metric.
//
// Only style arrays with a usable score at every metric are considered.
// Pairs are ordered by score, then by the style's average on the metric (from
// set), then by prompt count ascending. When instructions are given, each
// pair is joined with its paraphrase text by prompt count.
func TopPrompts(records []models.ScoreRecord, set models.AggregateSet, instructions []models.Instruction, metric, n int) []models.TopPrompt {
	var candidates []promptCandidate
	for r := range records {
		rec := &records[r]
		for style, sc := range rec.Styles {
			if !sc.Complete() || metric < 0 || metric >= len(sc.Values) {
				continue
			}
			candidates = append(candidates, promptCandidate{rec: rec, style: style, scores: sc.Values})
		}
	}

	styleAvg := func(style string) float64 {
		e, ok := set[style]
		if !ok || metric >= len(e.Averages) {
			return 0
		}
		return e.Averages[metric]
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.scores[metric] != b.scores[metric] {
			return a.scores[metric] > b.scores[metric]
		}
		if avA, avB := styleAvg(a.style), styleAvg(b.style); avA != avB {
			return avA > avB
		}
		if a.rec.PromptCount != b.rec.PromptCount {
			return a.rec.PromptCount < b.rec.PromptCount
		}
		return a.style < b.style
	})

	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}

	texts := make(map[int]models.Instruction, len(instructions))
	for _, ins := range instructions {
		texts[ins.PromptCount] = ins
	}

	out := make([]models.TopPrompt, len(candidates))
	for i, c := range candidates {
		tp := models.TopPrompt{
			ExampleID:   fmt.Sprintf("%d_%d", metric+1, i+1),
			Metric:      metric,
			PromptID:    c.rec.PromptID,
			PromptCount: c.rec.PromptCount,
			Style:       c.style,
			Score:       c.scores[metric],
			Scores:      append([]float64(nil), c.scores...),
		}
		if ins, ok := texts[c.rec.PromptCount]; ok {
			tp.Text, _ = ins.Text(c.style)
		}
		out[i] = tp
	}
	return out
}
