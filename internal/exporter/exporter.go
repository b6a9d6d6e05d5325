// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

// Package exporter wires the smartmon collectors into a Prometheus
// registry and serves them over HTTP.
package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/platformbuilds/smartmon/internal/collector"
	"github.com/platformbuilds/smartmon/internal/config"
	"github.com/platformbuilds/smartmon/internal/smartctl"
)

// Exporter exposes S.M.A.R.T. metrics on an HTTP endpoint.
type Exporter struct {
	cfg        *config.Config
	collectors map[string]collector.Collector
	registry   *prometheus.Registry
	logger     *slog.Logger
}

// New creates an Exporter from the given configuration. The config is
// copied; the caller's struct is never written to.
func New(cfg *config.Config, logger *slog.Logger) (*Exporter, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	own := *cfg
	if own.Endpoint.Port == 0 {
		own.Endpoint.Port = 9541
	}
	if own.Endpoint.Path == "" {
		own.Endpoint.Path = "/metrics"
	}
	if logger == nil {
		logger = slog.Default()
	}

	e := &Exporter{
		cfg:      &own,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}

	if err := e.initCollectors(); err != nil {
		return nil, fmt.Errorf("failed to initialize collectors: %w", err)
	}

	return e, nil
}

// initCollectors instantiates the enabled collectors and registers the
// top-level collector with the registry.
func (e *Exporter) initCollectors() error {
	timeout := e.cfg.Smartctl.Timeout()
	client := smartctl.New(e.cfg.Smartctl.Path, timeout, e.logger)

	baseCfg := collector.Config{
		Client:  client,
		Devices: e.cfg.Smartctl.Devices,
		Filter:  collector.NewDeviceFilter(e.cfg.Smartctl.Ignore, e.cfg.Smartctl.Accept),
		Logger:  e.logger,
		Timeout: timeout,
	}

	collectors, err := collector.DefaultRegistry.CreateEnabled(
		baseCfg,
		e.cfg.IsCollectorEnabled,
		e.logger,
	)
	if err != nil {
		return err
	}
	e.collectors = collectors

	sc := collector.NewSmartCollector(
		collector.Namespace,
		e.collectors,
		e.logger,
		timeout,
	)
	if err := e.registry.Register(sc); err != nil {
		return fmt.Errorf("failed to register smart collector: %w", err)
	}

	return nil
}

// Handler returns an HTTP handler for the metrics endpoint.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(
		e.registry,
		promhttp.HandlerOpts{
			ErrorLog:          slog.NewLogLogger(e.logger.Handler(), slog.LevelError),
			ErrorHandling:     promhttp.ContinueOnError,
			Timeout:           e.cfg.Smartctl.Timeout(),
			EnableOpenMetrics: true,
		},
	)
}

// Registry returns the Prometheus registry used by this exporter.
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// EnabledCollectors returns a list of enabled collector names.
func (e *Exporter) EnabledCollectors() []string {
	names := make([]string, 0, len(e.collectors))
	for name := range e.collectors {
		names = append(names, name)
	}
	return names
}

// Mux returns the full HTTP handler tree: metrics endpoint, liveness
// and readiness probes, and a landing page.
func (e *Exporter) Mux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(e.cfg.Endpoint.Path, e.Handler())

	mux.HandleFunc("/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK\n"))
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(e.collectors) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Not Ready: no collectors initialized\n"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready\n"))
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"healthy","collectors":%d,"namespace":"%s"}`, len(e.collectors), collector.Namespace)
		_, _ = w.Write([]byte("\n"))
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>smartmon exporter</title></head>
<body>
<h1>smartmon exporter</h1>
<p><a href=%q>Metrics</a></p>
</body>
</html>
`, e.cfg.Endpoint.Path)
	})

	return mux
}

// Serve runs the HTTP server until the context is canceled, then shuts
// it down gracefully.
func (e *Exporter) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", e.cfg.Endpoint.Port),
		Handler:           e.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e.logger.Info("metrics endpoint listening",
			"addr", srv.Addr,
			"path", e.cfg.Endpoint.Path)
		return srv.ListenAndServe()
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
