// Package loader fetches the score files of a dataset concurrently and
// decodes them into records ready for aggregation.
//
// A dataset lives under its base path in a Source. With categories
// configured each model has one file per category at base/model/category.json;
// otherwise each model is a single file at base/model.json.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/prxlab/prxdash/internal/models"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/scorefile"
	"github.com/prxlab/prxdash/internal/source"
	"golang.org/x/sync/errgroup"
)

// ErrNoData is returned when every file of a model or dataset failed to load.
var ErrNoData = errors.New("no score data loaded")

// FetchFailure records one file that could not be fetched or decoded.
type FetchFailure struct {
	Model    string `json:"model"`
	Category string `json:"category,omitempty"`
	Name     string `json:"name"`
	NotFound bool   `json:"not_found"`
	Error    string `json:"error"`
}

func (f FetchFailure) String() string {
	return fmt.Sprintf("%s: %s", f.Name, f.Error)
}

// ModelData is the merged records of one model.
type ModelData struct {
	Model    string               `json:"model"`
	Records  []models.ScoreRecord `json:"-"`
	Files    int                  `json:"files"`
	Failures []FetchFailure       `json:"failures,omitempty"`
}

// DatasetData is every model of a dataset that loaded at least one file,
// in configured model order.
type DatasetData struct {
	Dataset  string         `json:"dataset"`
	Models   []*ModelData   `json:"models"`
	Failures []FetchFailure `json:"failures,omitempty"`
}

// Model returns the data for name, or nil.
func (d *DatasetData) Model(name string) *ModelData {
	for _, m := range d.Models {
		if m.Model == name {
			return m
		}
	}
	return nil
}

// Loader fetches score files from a Source.
type Loader struct {
	src         source.Source
	metricCount int
	concurrency int
	metrics     *Metrics
	logger      *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithConcurrency bounds the number of in-flight fetches. n <= 0 is unbounded.
func WithConcurrency(n int) Option {
	return func(l *Loader) { l.concurrency = n }
}

// WithMetrics records fetch counts and load durations in m.
func WithMetrics(m *Metrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithLogger sets the logger used for fetch warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New returns a Loader decoding score vectors of metricCount metrics.
func New(src source.Source, metricCount int, opts ...Option) *Loader {
	l := &Loader{
		src:         src,
		metricCount: metricCount,
		concurrency: projectconfig.DefaultConcurrency,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// FileNames lists the files that make up model in ds, in merge order.
func FileNames(ds projectconfig.DatasetConfig, model string) (names, categories []string) {
	if len(ds.Categories) == 0 {
		return []string{path.Join(ds.Path(), model+".json")}, []string{""}
	}
	for _, cat := range ds.Categories {
		names = append(names, path.Join(ds.Path(), model, cat+".json"))
		categories = append(categories, cat)
	}
	return names, categories
}

// LoadModel fetches every file of model concurrently. A failed file is
// logged, recorded in Failures and skipped. Records are merged in file order
// regardless of completion order. ErrNoData is returned only when no file
// loaded.
func (l *Loader) LoadModel(ctx context.Context, ds projectconfig.DatasetConfig, model string) (*ModelData, error) {
	start := time.Now()
	defer func() { l.metrics.observeLoad(ds.Name, time.Since(start).Seconds()) }()

	names, categories := FileNames(ds, model)
	results := make([][]models.ScoreRecord, len(names))
	failures := make([]*FetchFailure, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, name := range names {
		g.Go(func() error {
			records, err := l.fetch(gctx, name)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failures[i] = l.failure(model, categories[i], name, err)
				return nil
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := &ModelData{Model: model}
	for i := range names {
		if failures[i] != nil {
			data.Failures = append(data.Failures, *failures[i])
			continue
		}
		data.Files++
		data.Records = append(data.Records, results[i]...)
	}
	if data.Files == 0 {
		return data, fmt.Errorf("%w for model %s", ErrNoData, model)
	}

	l.logger.Debug("model loaded",
		"dataset", ds.Name,
		"model", model,
		"files", data.Files,
		"records", len(data.Records),
		"failures", len(data.Failures),
		"duration", time.Since(start))
	return data, nil
}

// LoadDataset loads every configured model of ds concurrently. Models with no
// loadable file are left out and their failures reported; ErrNoData is
// returned when no model loaded.
func (l *Loader) LoadDataset(ctx context.Context, ds projectconfig.DatasetConfig) (*DatasetData, error) {
	loaded := make([]*ModelData, len(ds.Models))

	var mu sync.Mutex
	var failures []FetchFailure

	g, gctx := errgroup.WithContext(ctx)
	for i, model := range ds.Models {
		g.Go(func() error {
			data, err := l.LoadModel(gctx, ds, model)
			if data != nil {
				mu.Lock()
				failures = append(failures, data.Failures...)
				mu.Unlock()
			}
			switch {
			case err == nil:
				loaded[i] = data
			case errors.Is(err, ErrNoData):
				// every file failed; already recorded
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &DatasetData{Dataset: ds.Name}
	for _, m := range loaded {
		if m != nil {
			out.Models = append(out.Models, m)
		}
	}
	sortFailures(failures, ds)
	out.Failures = failures
	if len(out.Models) == 0 {
		return out, fmt.Errorf("%w for dataset %s", ErrNoData, ds.Name)
	}
	return out, nil
}

// LoadInstructions fetches the dataset's instruction file, if one is configured.
func (l *Loader) LoadInstructions(ctx context.Context, ds projectconfig.DatasetConfig) ([]models.Instruction, error) {
	if ds.Instructions == "" {
		return nil, nil
	}
	name := path.Join(ds.Path(), ds.Instructions)
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := scorefile.NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	defer r.Close() //nolint:errcheck
	ins, err := scorefile.DecodeInstructions(r)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", name, err)
	}
	return ins, nil
}

func (l *Loader) fetch(ctx context.Context, name string) ([]models.ScoreRecord, error) {
	rc, err := l.src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	r, err := scorefile.NewReader(rc)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck

	records, err := scorefile.DecodeScores(r, l.metricCount)
	if err != nil {
		return nil, fmt.Errorf("decoding: %w", err)
	}
	l.metrics.incFetch(ResultOK)
	return records, nil
}

func (l *Loader) failure(model, category, name string, err error) *FetchFailure {
	notFound := errors.Is(err, source.ErrNotFound)
	if notFound {
		l.metrics.incFetch(ResultNotFound)
	} else {
		l.metrics.incFetch(ResultError)
	}
	l.logger.Warn("skipping score file",
		"source", l.src.String(),
		"model", model,
		"name", name,
		"error", err)
	return &FetchFailure{
		Model:    model,
		Category: category,
		Name:     name,
		NotFound: notFound,
		Error:    err.Error(),
	}
}

// sortFailures orders failures by configured model order. Each model's
// failures are already in file order.
func sortFailures(failures []FetchFailure, ds projectconfig.DatasetConfig) {
	rank := make(map[string]int, len(ds.Models))
	for i, m := range ds.Models {
		rank[m] = i
	}
	slices.SortStableFunc(failures, func(a, b FetchFailure) int {
		return rank[a.Model] - rank[b.Model]
	})
}
