package webserver

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prxlab/prxdash/internal/reporting"
	"github.com/prxlab/prxdash/internal/webapi"
)

// registerRoutes sets up the API, report and metrics routes on the given mux.
func registerRoutes(mux *http.ServeMux, cfg Config) {
	api := http.NewServeMux()
	webapi.RegisterRoutes(api, cfg.Store)
	mux.Handle("/api/", webapi.CORSMiddleware(api, cfg.AllowedOrigins...))

	mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /report", reportHandler(cfg.Store, false))
	mux.HandleFunc("GET /report.md", reportHandler(cfg.Store, true))
	mux.Handle("GET /{$}", http.RedirectHandler("/report", http.StatusFound))
}

// reportHandler renders the current view as HTML, or as raw Markdown.
func reportHandler(store webapi.ViewStore, raw bool) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		vm := store.Current()
		if vm == nil {
			http.Error(w, webapi.ErrNoView.Error(), http.StatusServiceUnavailable)
			return
		}
		md := reporting.FormatMarkdown(vm)
		if raw {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			fmt.Fprint(w, md) //nolint:errcheck
			return
		}

		var buf bytes.Buffer
		title := fmt.Sprintf("prxdash: %s / %s", vm.Selection.Dataset, vm.Selection.Model)
		if err := reporting.RenderHTML(&buf, title, md); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes()) //nolint:errcheck
	}
}
