package reporting

import (
	"github.com/prxlab/prxdash/internal/families"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/session"
)

func complete(vals ...float64) models.StyleScores {
	valid := make([]bool, len(vals))
	for i := range valid {
		valid[i] = true
	}
	return models.StyleScores{IsArray: true, Len: len(vals), Values: vals, Valid: valid}
}

// sampleView builds a two-model view: gemma has a baseline, a strong and a
// weak paraphrase and one unscored field; qwen only has the strong one.
func sampleView() *session.ViewModel {
	data := &loader.DatasetData{
		Dataset: "alpaca",
		Models: []*loader.ModelData{
			{Model: "gemma", Files: 2, Records: []models.ScoreRecord{
				{PromptCount: 1, HasCount: true, Styles: map[string]models.StyleScores{
					models.BaselineStyle: complete(5, 5),
					"instruct_formal":    complete(9, 7),
					"instruct_casual":    complete(3, 4),
					"text":               {IsArray: false},
				}},
			}},
			{Model: "qwen", Files: 1, Records: []models.ScoreRecord{
				{PromptCount: 1, HasCount: true, Styles: map[string]models.StyleScores{
					"instruct_formal": complete(7, 7),
				}},
			}},
		},
		Failures: []loader.FetchFailure{{Model: "qwen", Name: "alpaca/qwen/extra.json", Error: "not found"}},
	}
	settings := session.Settings{
		MetricNames: []string{"Fluency", "Accuracy | strict"},
		Families: families.Set{
			{Name: "tone", Styles: []string{"instruct_formal", "instruct_casual"}},
		},
		Percentile:    0.9,
		BaselineStyle: models.BaselineStyle,
		TopN:          5,
	}
	return session.Build(data, session.Selection{Dataset: "alpaca"}, settings)
}
