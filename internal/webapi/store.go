package webapi

import (
	"context"
	"errors"
	"sort"

	"github.com/prxlab/prxdash/internal/metrics"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/session"
)

// ErrNoView is returned when no load has published a view yet.
var ErrNoView = errors.New("no dataset loaded yet; POST /api/select to load one")

// ViewStore provides access to the current view and triggers new loads.
// *session.Session implements it.
type ViewStore interface {
	// Current returns the most recently published view, or nil.
	Current() *session.ViewModel
	// Load builds and publishes the view for sel.
	Load(ctx context.Context, sel session.Selection) (*session.ViewModel, error)
	// Config returns the project configuration.
	Config() *projectconfig.ProjectConfig
}

// currentModel returns the current view and its selected model.
func currentModel(store ViewStore) (*session.ViewModel, *session.ModelView, error) {
	vm := store.Current()
	if vm == nil {
		return nil, nil, ErrNoView
	}
	mv := vm.Current()
	if mv == nil {
		return vm, nil, ErrNoView
	}
	return vm, mv, nil
}

func summarize(vm *session.ViewModel) ViewSummary {
	sum := ViewSummary{
		Token:       vm.Token,
		Selection:   vm.Selection,
		Models:      vm.ModelOrder,
		Failures:    vm.Failures,
		GeneratedAt: vm.GeneratedAt,
	}
	if mv := vm.Current(); mv != nil {
		sum.Records = mv.Records
		sum.Styles = len(mv.Aggregates)
		sum.Best = mv.Best
		sum.BestScore = mv.BestScore
		sum.BestError = mv.BestError
	} else {
		sum.BestError = "selected model did not load"
	}
	return sum
}

// styleRows builds the aggregate table, highest overall average first.
// Unscored styles sort last.
func styleRows(mv *session.ModelView) []StyleRow {
	rows := make([]StyleRow, 0, len(mv.Aggregates))
	for _, style := range mv.Aggregates.Styles() {
		rows = append(rows, styleRow(mv, style))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if (rows[i].Count > 0) != (rows[j].Count > 0) {
			return rows[i].Count > 0
		}
		return rows[i].Overall > rows[j].Overall
	})
	return rows
}

func styleRow(mv *session.ModelView, style string) StyleRow {
	e := mv.Aggregates[style]
	hl := mv.Highlight[style]
	if hl == nil {
		hl = make([]bool, len(e.Averages))
	}
	return StyleRow{
		Style:     style,
		Count:     e.Count,
		Averages:  e.Averages,
		StdDevs:   e.StdDevs,
		Overall:   e.OverallAverage,
		Highlight: hl,
	}
}

func styleDetail(mv *session.ModelView, style string) (StyleDetail, bool) {
	e, ok := mv.Aggregates[style]
	if !ok {
		return StyleDetail{}, false
	}
	d := StyleDetail{
		StyleRow:       styleRow(mv, style),
		Min:            e.Min,
		Max:            e.Max,
		ScoresByMetric: e.ScoresByMetric,
	}
	for i := range mv.Baseline {
		if mv.Baseline[i].Style == style {
			d.Baseline = &mv.Baseline[i]
			break
		}
	}
	return d, true
}

func mergedRows(m *session.MergedView) []MergedRow {
	rows := make([]MergedRow, 0, len(m.Vectors))
	for style, vec := range m.Vectors {
		rows = append(rows, MergedRow{
			Style:     style,
			Averages:  vec,
			Overall:   metrics.Mean(vec),
			Highlight: m.Highlight[style],
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Overall != rows[j].Overall {
			return rows[i].Overall > rows[j].Overall
		}
		return rows[i].Style < rows[j].Style
	})
	return rows
}
