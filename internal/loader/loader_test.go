package loader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSource serves files from memory, optionally delaying some of them.
type fakeSource struct {
	files  map[string]string
	delays map[string]time.Duration
	errs   map[string]error

	mu     sync.Mutex
	opened []string
}

func (f *fakeSource) String() string { return "fake" }

func (f *fakeSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.opened = append(f.opened, name)
	f.mu.Unlock()

	if d := f.delays[name]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	body, ok := f.files[name]
	if !ok {
		return nil, source.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFileNames(t *testing.T) {
	names, cats := FileNames(projectconfig.DatasetConfig{Name: "alpaca"}, "gemma")
	assert.Equal(t, []string{"alpaca/gemma.json"}, names)
	assert.Equal(t, []string{""}, cats)

	names, cats = FileNames(projectconfig.DatasetConfig{Name: "alpaca", Base: "data/alp", Categories: []string{"tone", "voice"}}, "gemma")
	assert.Equal(t, []string{"data/alp/gemma/tone.json", "data/alp/gemma/voice.json"}, names)
	assert.Equal(t, []string{"tone", "voice"}, cats)
}

func TestLoadModel_MergesInCategoryOrder(t *testing.T) {
	src := &fakeSource{
		files: map[string]string{
			"ds/m/first.json":  `[{"prompt_count": 1, "s": [1]}]`,
			"ds/m/second.json": `[{"prompt_count": 2, "s": [2]}]`,
			"ds/m/third.json":  `[{"prompt_count": 3, "s": [3]}]`,
		},
		// the first category finishes last
		delays: map[string]time.Duration{"ds/m/first.json": 30 * time.Millisecond},
	}
	ds := projectconfig.DatasetConfig{Name: "ds", Models: []string{"m"}, Categories: []string{"first", "second", "third"}}

	l := New(src, 1, WithLogger(discardLogger()))
	data, err := l.LoadModel(context.Background(), ds, "m")
	require.NoError(t, err)

	require.Len(t, data.Records, 3)
	for i, rec := range data.Records {
		assert.Equal(t, i+1, rec.PromptCount)
	}
	assert.Equal(t, 3, data.Files)
	assert.Empty(t, data.Failures)
}

func TestLoadModel_IsolatesFailures(t *testing.T) {
	src := &fakeSource{
		files: map[string]string{
			"ds/m/ok.json":  `[{"s": [5]}]`,
			"ds/m/bad.json": `{"not": "an array"}`,
		},
		errs: map[string]error{"ds/m/down.json": errors.New("connection refused")},
	}
	ds := projectconfig.DatasetConfig{Name: "ds", Categories: []string{"ok", "missing", "bad", "down"}}

	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))

	l := New(src, 1, WithLogger(discardLogger()), WithMetrics(m))
	data, err := l.LoadModel(context.Background(), ds, "m")
	require.NoError(t, err)

	assert.Equal(t, 1, data.Files)
	require.Len(t, data.Records, 1)
	require.Len(t, data.Failures, 3)

	assert.Equal(t, "missing", data.Failures[0].Category)
	assert.True(t, data.Failures[0].NotFound)
	assert.Equal(t, "bad", data.Failures[1].Category)
	assert.Contains(t, data.Failures[1].Error, "decoding")
	assert.Equal(t, "down", data.Failures[2].Category)
	assert.False(t, data.Failures[2].NotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues(ResultNotFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues(ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.loadDuration))
}

func TestLoadModel_AllFailed(t *testing.T) {
	l := New(&fakeSource{}, 1, WithLogger(discardLogger()))
	data, err := l.LoadModel(context.Background(), projectconfig.DatasetConfig{Name: "ds"}, "m")
	assert.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, data)
	assert.Len(t, data.Failures, 1)
}

func TestLoadModel_Canceled(t *testing.T) {
	src := &fakeSource{
		files:  map[string]string{"ds/m.json": `[]`},
		delays: map[string]time.Duration{"ds/m.json": time.Second},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	l := New(src, 1, WithLogger(discardLogger()))
	_, err := l.LoadModel(ctx, projectconfig.DatasetConfig{Name: "ds"}, "m")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoadDataset(t *testing.T) {
	src := &fakeSource{
		files: map[string]string{
			"ds/a.json": `[{"s": [1]}]`,
			"ds/c.json": `[{"s": [3]}, {"s": [4]}]`,
		},
	}
	ds := projectconfig.DatasetConfig{Name: "ds", Models: []string{"c", "b", "a"}}

	l := New(src, 1, WithLogger(discardLogger()), WithConcurrency(1))
	data, err := l.LoadDataset(context.Background(), ds)
	require.NoError(t, err)

	require.Len(t, data.Models, 2)
	assert.Equal(t, "c", data.Models[0].Model, "configured model order is kept")
	assert.Equal(t, "a", data.Models[1].Model)
	assert.Len(t, data.Model("c").Records, 2)
	assert.Nil(t, data.Model("b"))

	require.Len(t, data.Failures, 1)
	assert.Equal(t, "b", data.Failures[0].Model)
}

func TestLoadDataset_NothingLoaded(t *testing.T) {
	l := New(&fakeSource{}, 1, WithLogger(discardLogger()))
	data, err := l.LoadDataset(context.Background(), projectconfig.DatasetConfig{Name: "ds", Models: []string{"x", "y"}})
	assert.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, data)
	assert.Len(t, data.Failures, 2)
}

func TestLoadFromDirWithGzip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "ds"), 0o755))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(`[{"prompt_count": 7, "s": [2, 4]}]`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(root, "ds", "m.json"), buf.Bytes(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "ds", "instructions.json"),
		[]byte(`[{"prompt_count": 7, "instruction_original": "Say hi.", "s": "Greet."}]`), 0o644))

	ds := projectconfig.DatasetConfig{Name: "ds", Models: []string{"m"}, Instructions: "instructions.json"}
	l := New(source.NewDir(root), 2, WithLogger(discardLogger()))

	data, err := l.LoadModel(context.Background(), ds, "m")
	require.NoError(t, err)
	require.Len(t, data.Records, 1)
	assert.Equal(t, []float64{2, 4}, data.Records[0].Styles["s"].Values)

	ins, err := l.LoadInstructions(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, ins, 1)
	text, ok := ins[0].Text("s")
	assert.True(t, ok)
	assert.Equal(t, "Greet.", text)

	ins, err = l.LoadInstructions(context.Background(), projectconfig.DatasetConfig{Name: "ds"})
	require.NoError(t, err)
	assert.Nil(t, ins)
}

func TestMetrics_Register(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	require.NoError(t, m.Register(reg))
	assert.Error(t, NewMetrics().Register(reg), "duplicate registration fails")

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.incFetch(ResultOK)
		nilMetrics.observeLoad("ds", 1)
	})
}
