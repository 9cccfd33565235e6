package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prxlab/prxdash/internal/session"
	"github.com/prxlab/prxdash/internal/webserver"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port      int
	noBrowser bool
	dataset   string
	model     string
	events    string
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long: `Start the dashboard server on 127.0.0.1.

Serves the JSON API under /api/, an HTML report of the current view at
/report, and Prometheus metrics at /metrics. The first configured dataset is
loaded at startup; POST /api/select switches dataset or model. A load that
finishes after a newer one is discarded, so the view always reflects the
latest selection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "Do not open a browser")
	cmd.Flags().StringVar(&opts.dataset, "dataset", "", "Dataset to load at startup")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model to select at startup")
	cmd.Flags().StringVar(&opts.events, "events", "", "Append load events as JSON lines to this file")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var sessOpts []session.Option
	if opts.events != "" {
		log, err := session.NewJSONEventLog(opts.events)
		if err != nil {
			return err
		}
		defer log.Close() //nolint:errcheck
		sessOpts = append(sessOpts, session.WithEventLog(log))
	}

	a, err := newApp(cmd, reg, sessOpts...)
	if err != nil {
		return err
	}

	port := opts.port
	if port == 0 {
		port = a.cfg.Server.Port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(a.cfg.Datasets) > 0 {
		if _, err := a.load(cmd, session.Selection{Dataset: opts.dataset, Model: opts.model}); err != nil {
			if !errors.Is(err, session.ErrStale) {
				slog.Warn("initial load failed; select a dataset from the API", "error", err)
			}
		}
	} else {
		fmt.Fprintln(cmd.ErrOrStderr(), "no datasets configured; run \"prxdash init\" first") //nolint:errcheck
	}

	srv, err := webserver.New(webserver.Config{
		Port:           port,
		Store:          a.session,
		Gatherer:       reg,
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		NoBrowser:      opts.noBrowser,
	})
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}
