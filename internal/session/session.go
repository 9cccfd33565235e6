// Package session owns the currently displayed view. Every load builds a
// fresh ViewModel from its own local state and publishes it only when no
// newer load has published or failed first.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/utils"
)

var (
	// ErrStale is returned by Load when a newer load published or failed
	// before this one finished. The stale view is returned but not published.
	ErrStale = errors.New("load superseded by a newer selection")

	// ErrUnknownModel is returned when the selected model is not configured.
	ErrUnknownModel = errors.New("unknown model")
)

// DatasetLoader fetches every model of a dataset.
type DatasetLoader interface {
	LoadDataset(ctx context.Context, ds projectconfig.DatasetConfig) (*loader.DatasetData, error)
}

// Session holds the current view and serializes its replacement.
type Session struct {
	cfg      *projectconfig.ProjectConfig
	loader   DatasetLoader
	settings Settings
	events   EventLog

	seq atomic.Uint64

	mu        sync.RWMutex
	current   *ViewModel
	published uint64
}

// Option configures a Session.
type Option func(*Session)

// WithEventLog records load events in log.
func WithEventLog(log EventLog) Option {
	return func(s *Session) { s.events = log }
}

// New returns a Session with no current view.
func New(cfg *projectconfig.ProjectConfig, l DatasetLoader, settings Settings, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		loader:   l,
		settings: settings,
		events:   NopEventLog{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the project configuration the session was created with.
func (s *Session) Config() *projectconfig.ProjectConfig {
	return s.cfg
}

// Current returns the most recently published view, or nil.
func (s *Session) Current() *ViewModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load fetches and aggregates sel, then publishes the result unless a newer
// load already has. On a dataset-level error the current view is untouched.
func (s *Session) Load(ctx context.Context, sel Selection) (*ViewModel, error) {
	token := s.seq.Add(1)

	ds, err := s.cfg.Dataset(sel.Dataset)
	if err != nil {
		return nil, err
	}
	sel.Dataset = ds.Name
	if sel.Model != "" && !slices.Contains(ds.Models, sel.Model) {
		return nil, fmt.Errorf("%w %q in dataset %s", ErrUnknownModel, sel.Model, ds.Name)
	}

	s.logEvent(NewEvent(EventLoadStart, token, selectionData(sel)))

	data, err := s.loader.LoadDataset(ctx, ds)
	if data != nil {
		for _, f := range data.Failures {
			s.logEvent(NewEvent(EventFetchFailure, token, map[string]any{
				"model": f.Model,
				"name":  f.Name,
				"error": f.Error,
			}))
		}
	}
	if err != nil {
		d := selectionData(sel)
		d["error"] = err.Error()
		s.logEvent(NewEvent(EventLoadFailed, token, d))
		s.fence(token)
		return nil, fmt.Errorf("loading dataset %s: %w", ds.Name, err)
	}

	vm := Build(data, sel, s.settings)
	vm.Token = token

	if !s.publish(vm) {
		s.logEvent(NewEvent(EventLoadStale, token, selectionData(sel)))
		slog.Debug("discarding stale load", "token", token, "dataset", sel.Dataset, "model", sel.Model)
		return vm, ErrStale
	}

	s.logEvent(NewEvent(EventLoadPublished, token, selectionData(vm.Selection)))
	utils.ViewToSlog("view published", summarize(vm))
	return vm, nil
}

// publish installs vm unless a view with a newer token is already current.
func (s *Session) publish(vm *ViewModel) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if vm.Token < s.published {
		return false
	}
	s.current = vm
	s.published = vm.Token
	return true
}

// fence marks token as the newest selection without replacing the current
// view, so loads started before a failed one can no longer publish.
func (s *Session) fence(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token > s.published {
		s.published = token
	}
}

func (s *Session) logEvent(e Event) {
	if err := s.events.Log(e); err != nil {
		slog.Warn("writing session event", "type", e.Type, "error", err)
	}
}

func summarize(vm *ViewModel) utils.ViewSummary {
	sum := utils.ViewSummary{
		Token:    vm.Token,
		Dataset:  vm.Selection.Dataset,
		Model:    vm.Selection.Model,
		Models:   len(vm.ModelOrder),
		Failures: len(vm.Failures),
	}
	if mv := vm.Current(); mv != nil {
		sum.Styles = utils.Ptr(len(mv.Aggregates))
		if mv.BestError != "" {
			sum.BestError = utils.Ptr(mv.BestError)
		} else {
			sum.Best = utils.Ptr(mv.Best)
			sum.BestScore = utils.Ptr(mv.BestScore)
		}
	}
	return sum
}
