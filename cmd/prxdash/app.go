package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prxlab/prxdash/internal/families"
	"github.com/prxlab/prxdash/internal/loader"
	"github.com/prxlab/prxdash/internal/projectconfig"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/prxlab/prxdash/internal/source"
	"github.com/prxlab/prxdash/internal/spinner"
	"github.com/spf13/cobra"
)

// app is the wiring shared by every command that loads scores.
type app struct {
	cfg     *projectconfig.ProjectConfig
	cfgPath string
	loader  *loader.Loader
	session *session.Session
}

// newApp loads the project config and builds the loader and session.
// Loader metrics are registered with reg when it is non-nil.
func newApp(cmd *cobra.Command, reg prometheus.Registerer, opts ...session.Option) (*app, error) {
	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, err
	}
	cfg, cfgPath, err := projectconfig.LoadWithPath(dir)
	if err != nil {
		return nil, err
	}
	if cfgPath == "" {
		slog.Debug("no project config found, using defaults", "dir", dir)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", projectconfig.FileName, err)
	}

	fams, err := families.LoadOrDefault(cfg.FamiliesFile)
	if err != nil {
		return nil, err
	}

	src, err := source.FromConfig(cfg.Source)
	if err != nil {
		return nil, err
	}

	loaderOpts := []loader.Option{loader.WithConcurrency(cfg.Loader.Concurrency)}
	if reg != nil {
		m := loader.NewMetrics()
		if err := m.Register(reg); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
		loaderOpts = append(loaderOpts, loader.WithMetrics(m))
	}
	l := loader.New(src, cfg.MetricCount(), loaderOpts...)

	settings := session.Settings{
		MetricNames:   cfg.Metrics.Names,
		Families:      fams,
		Percentile:    cfg.Percentile(),
		BaselineStyle: cfg.Baseline.Style,
		TopN:          cfg.TopN(),
	}
	return &app{
		cfg:     cfg,
		cfgPath: cfgPath,
		loader:  l,
		session: session.New(cfg, l, settings, opts...),
	}, nil
}

// load builds the view for sel, with a spinner on stderr when it is a terminal.
func (a *app) load(cmd *cobra.Command, sel session.Selection) (*session.ViewModel, error) {
	label := sel.Dataset
	if label == "" {
		label = "default dataset"
	}
	stop := spinner.StartIfTerminal(cmd.ErrOrStderr(), "loading "+label)
	vm, err := a.session.Load(cmd.Context(), sel)
	stop()
	if err != nil {
		return nil, err
	}
	for _, f := range vm.Failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %s\n", f) //nolint:errcheck
	}
	return vm, nil
}

// loadModel is load that also requires the selected model to have loaded.
func (a *app) loadModel(cmd *cobra.Command, sel session.Selection) (*session.ViewModel, *session.ModelView, error) {
	vm, err := a.load(cmd, sel)
	if err != nil {
		return nil, nil, err
	}
	mv := vm.Current()
	if mv == nil {
		return vm, nil, fmt.Errorf("model %s has no loadable score files in dataset %s", vm.Selection.Model, vm.Selection.Dataset)
	}
	return vm, mv, nil
}

// loadConfig loads the project config without building a session.
func loadConfig(cmd *cobra.Command) (*projectconfig.ProjectConfig, error) {
	dir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, err
	}
	return projectconfig.Load(dir)
}
