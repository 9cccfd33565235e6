package models

import "sort"

// AggregateEntry holds the statistics computed for one style from every
// record that carried it.
type AggregateEntry struct {
	Style string `json:"style"`
	// ScoresByMetric[i] lists the raw scores for metric i in input record order.
	ScoresByMetric [][]float64 `json:"scores_by_metric"`
	Averages       []float64   `json:"averages"`
	StdDevs        []float64   `json:"std_devs"`
	Min            []float64   `json:"min"`
	Max            []float64   `json:"max"`
	// OverallAverage is the mean of Averages, so every metric weighs the same
	// regardless of how many raw samples it has.
	OverallAverage float64 `json:"overall_average"`
	// Count is the number of records that carried this style as an array.
	Count int `json:"count"`
}

// Scored reports whether the entry has any contributing record. Unscored
// entries are excluded from ranking, rollups and best-style selection.
func (e AggregateEntry) Scored() bool {
	return e.Count > 0
}

// AggregateSet maps style key to its aggregate entry.
type AggregateSet map[string]AggregateEntry

// Styles returns every style key in lexicographic order. All ranking code
// iterates in this order so ties resolve the same way on every run.
func (s AggregateSet) Styles() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ScoredStyles is Styles filtered to entries with Count > 0.
func (s AggregateSet) ScoredStyles() []string {
	keys := make([]string, 0, len(s))
	for _, k := range s.Styles() {
		if s[k].Scored() {
			keys = append(keys, k)
		}
	}
	return keys
}

// FamilyRow is the rollup of one family: the mean of its present members'
// per-metric averages.
type FamilyRow struct {
	Name     string    `json:"name"`
	Members  []string  `json:"members"`
	Averages []float64 `json:"averages"`
	Overall  float64   `json:"overall_average"`
}

// RankedStyle is a style and the score it was ranked by.
type RankedStyle struct {
	Rank  int     `json:"rank"`
	Style string  `json:"style"`
	Score float64 `json:"score"`
}

// MetricVariability summarizes one metric across every raw score of every style.
type MetricVariability struct {
	Metric        int     `json:"metric"`
	Name          string  `json:"name,omitempty"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	Mean          float64 `json:"mean"`
	Samples       int     `json:"samples"`
	NoVariability bool    `json:"no_variability"`
}

// TopPrompt is a single (prompt, style) pair selected as a best example for a metric.
type TopPrompt struct {
	ExampleID   string    `json:"example_id"`
	Metric      int       `json:"metric"`
	PromptID    string    `json:"prompt_id,omitempty"`
	PromptCount int       `json:"prompt_count"`
	Style       string    `json:"style"`
	Score       float64   `json:"score"`
	Scores      []float64 `json:"scores"`
	Text        string    `json:"text,omitempty"`
}
