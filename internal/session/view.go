package session

import (
	"time"

	"github.com/prxlab/prxdash/internal/aggregate"
	"github.com/prxlab/prxdash/internal/baseline"
	"github.com/prxlab/prxdash/internal/families"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/models"
)

// Selection is the dataset and model a view was built for. An empty Model
// selects the first model that loaded.
type Selection struct {
	Dataset string `json:"dataset"`
	Model   string `json:"model,omitempty"`
}

// Settings controls how views are derived from aggregates.
type Settings struct {
	MetricNames   []string
	Families      families.Set
	Percentile    float64
	BaselineStyle string
	TopN          int
}

// ModelView is everything derived from one model's records.
type ModelView struct {
	Model       string                     `json:"model"`
	Records     int                        `json:"records"`
	Files       int                        `json:"files"`
	Aggregates  models.AggregateSet        `json:"aggregates"`
	Families    []models.FamilyRow         `json:"families"`
	Thresholds  []float64                  `json:"thresholds"`
	Highlight   map[string][]bool          `json:"highlight"`
	Best        string                     `json:"best,omitempty"`
	BestScore   float64                    `json:"best_score"`
	BestError   string                     `json:"best_error,omitempty"`
	TopStyles   []models.RankedStyle       `json:"top_styles"`
	Baseline    []baseline.StyleDelta      `json:"baseline,omitempty"`
	BaselineErr string                     `json:"baseline_error,omitempty"`
	Variability []models.MetricVariability `json:"variability"`

	records []models.ScoreRecord
}

// ScoreRecords returns the raw records the view was built from.
func (m *ModelView) ScoreRecords() []models.ScoreRecord {
	return m.records
}

// MergedView is the cross-model average of every loaded model.
type MergedView struct {
	Models     []string             `json:"models"`
	Vectors    map[string][]float64 `json:"vectors"`
	Thresholds []float64            `json:"thresholds"`
	Highlight  map[string][]bool    `json:"highlight"`
	Best       string               `json:"best,omitempty"`
	BestScore  float64              `json:"best_score"`
	BestError  string               `json:"best_error,omitempty"`
}

// ViewModel is an immutable snapshot of one completed load.
type ViewModel struct {
	Token         uint64                `json:"token"`
	Selection     Selection             `json:"selection"`
	MetricNames   []string              `json:"metric_names"`
	BaselineStyle string                `json:"baseline_style"`
	ModelOrder    []string              `json:"models"`
	Models        map[string]*ModelView `json:"-"`
	Merged        *MergedView           `json:"merged"`
	Failures      []loader.FetchFailure `json:"failures,omitempty"`
	GeneratedAt   time.Time             `json:"generated_at"`
}

// Current returns the selected model's view, or nil when it did not load.
func (v *ViewModel) Current() *ModelView {
	if v == nil {
		return nil
	}
	return v.Models[v.Selection.Model]
}

// Build derives a ViewModel from loaded data. It only reads data, so several
// builds may run concurrently over distinct loads.
func Build(data *loader.DatasetData, sel Selection, settings Settings) *ViewModel {
	metricCount := len(settings.MetricNames)
	vm := &ViewModel{
		Selection:     sel,
		MetricNames:   settings.MetricNames,
		BaselineStyle: settings.BaselineStyle,
		Models:        make(map[string]*ModelView, len(data.Models)),
		Failures:      data.Failures,
		GeneratedAt:   time.Now().UTC(),
	}
	if vm.Selection.Model == "" && len(data.Models) > 0 {
		vm.Selection.Model = data.Models[0].Model
	}

	perModel := make(map[string]map[string][]float64, len(data.Models))
	for _, md := range data.Models {
		mv := buildModelView(md, metricCount, settings)
		vm.Models[md.Model] = mv
		vm.ModelOrder = append(vm.ModelOrder, md.Model)
		perModel[md.Model] = aggregate.Averages(mv.Aggregates)
	}
	vm.Merged = buildMergedView(vm.ModelOrder, perModel, settings)
	return vm
}

func buildModelView(md *loader.ModelData, metricCount int, settings Settings) *ModelView {
	set := aggregate.Aggregate(md.Records, metricCount)
	thresholds := aggregate.Thresholds(set, settings.Percentile)

	mv := &ModelView{
		Model:       md.Model,
		Records:     len(md.Records),
		Files:       md.Files,
		Aggregates:  set,
		Families:    aggregate.Rollup(set, settings.Families),
		Thresholds:  thresholds,
		Highlight:   aggregate.Highlight(set, thresholds),
		TopStyles:   aggregate.TopStyles(set, settings.TopN),
		Variability: aggregate.Variability(set, settings.MetricNames),
		records:     md.Records,
	}

	if best, score, err := aggregate.BestStyle(set); err != nil {
		mv.BestError = err.Error()
	} else {
		mv.Best, mv.BestScore = best, score
	}

	if deltas, err := baseline.Compare(set, settings.BaselineStyle); err != nil {
		mv.BaselineErr = err.Error()
	} else {
		mv.Baseline = deltas
	}
	return mv
}

func buildMergedView(order []string, perModel map[string]map[string][]float64, settings Settings) *MergedView {
	vectors := aggregate.Merge(perModel)
	thresholds := aggregate.VectorThresholds(vectors, settings.Percentile)

	mv := &MergedView{
		Models:     order,
		Vectors:    vectors,
		Thresholds: thresholds,
		Highlight:  make(map[string][]bool, len(vectors)),
	}
	for style, vec := range vectors {
		mv.Highlight[style] = aggregate.HighlightVector(vec, thresholds)
	}
	if best, score, err := aggregate.BestVector(vectors); err != nil {
		mv.BestError = err.Error()
	} else {
		mv.Best, mv.BestScore = best, score
	}
	return mv
}
