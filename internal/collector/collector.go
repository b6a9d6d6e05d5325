// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

// Package collector turns smartctl telemetry into Prometheus metrics.
// The framework follows the node_exporter collector architecture: small
// named collectors implementing Update, run under a top-level
// prometheus.Collector that reports per-collector duration and success.
package collector

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platformbuilds/smartmon/internal/smartctl"
)

// Namespace is the default metric namespace.
const Namespace = "smartmon"

// Collector is the interface a collector has to implement.
type Collector interface {
	// Update gets new metrics and exposes them via the channel.
	Update(ch chan<- prometheus.Metric) error
}

// Config holds the shared configuration handed to collector factories.
type Config struct {
	// Client runs smartctl invocations.
	Client smartctl.Client

	// Devices lists devices to poll explicitly; empty means scan.
	Devices []string

	// Filter is applied to scanned device names.
	Filter DeviceFilter

	// Logger for the collector.
	Logger *slog.Logger

	// Timeout is the maximum time for a single collector pass.
	Timeout time.Duration
}

// typedDesc wraps a prometheus.Desc with a value type for convenience.
type typedDesc struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
}

// mustNewConstMetric creates a new const metric, panicking on error.
func (d *typedDesc) mustNewConstMetric(value float64, labels ...string) prometheus.Metric {
	return prometheus.MustNewConstMetric(d.desc, d.valueType, value, labels...)
}

// ErrNoData indicates the collector found no data to collect, but had no other error.
var ErrNoData = errors.New("collector returned no data")

// IsNoDataError checks if an error is a no-data error.
func IsNoDataError(err error) bool {
	return errors.Is(err, ErrNoData)
}

// SmartCollector implements the prometheus.Collector interface over the
// enabled collectors.
type SmartCollector struct {
	Collectors map[string]Collector
	logger     *slog.Logger
	timeout    time.Duration

	scrapeDurationDesc *prometheus.Desc
	scrapeSuccessDesc  *prometheus.Desc
}

// NewSmartCollector creates a new SmartCollector with the given collectors.
func NewSmartCollector(
	namespace string,
	collectors map[string]Collector,
	logger *slog.Logger,
	timeout time.Duration,
) *SmartCollector {
	return &SmartCollector{
		Collectors: collectors,
		logger:     logger,
		timeout:    timeout,
		scrapeDurationDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scrape", "collector_duration_seconds"),
			"Duration of a collector scrape.",
			[]string{"collector"},
			nil,
		),
		scrapeSuccessDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "scrape", "collector_success"),
			"Whether a collector succeeded.",
			[]string{"collector"},
			nil,
		),
	}
}

// Describe implements the prometheus.Collector interface.
func (s *SmartCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- s.scrapeDurationDesc
	ch <- s.scrapeSuccessDesc
}

// Collect implements the prometheus.Collector interface.
func (s *SmartCollector) Collect(ch chan<- prometheus.Metric) {
	wg := sync.WaitGroup{}
	wg.Add(len(s.Collectors))
	for name, c := range s.Collectors {
		go func(name string, c Collector) {
			defer wg.Done()
			s.execute(name, c, ch)
		}(name, c)
	}
	wg.Wait()
}

// execute runs a single collector with timing and error handling. The
// collector writes to an intermediate channel so that a collector still
// running after the timeout never touches ch once the scrape has moved
// on; its remaining output is drained and discarded instead.
func (s *SmartCollector) execute(name string, c Collector, ch chan<- prometheus.Metric) {
	begin := time.Now()

	done := make(chan error, 1)
	inner := make(chan prometheus.Metric)
	go func() {
		done <- c.Update(inner)
		close(inner)
	}()

	var err error
	timeout := time.After(s.timeout)
forward:
	for {
		select {
		case m, ok := <-inner:
			if !ok {
				err = <-done
				break forward
			}
			ch <- m
		case <-timeout:
			err = fmt.Errorf("collector timeout after %s", s.timeout)
			go func() {
				for range inner {
				}
			}()
			break forward
		}
	}

	duration := time.Since(begin)
	var success float64

	if err != nil {
		if IsNoDataError(err) {
			s.logger.Debug("collector returned no data",
				"collector", name,
				"duration_seconds", duration.Seconds(),
				"err", err)
		} else {
			s.logger.Error("collector failed",
				"collector", name,
				"duration_seconds", duration.Seconds(),
				"err", err)
		}
		success = 0
	} else {
		s.logger.Debug("collector succeeded",
			"collector", name,
			"duration_seconds", duration.Seconds())
		success = 1
	}

	ch <- prometheus.MustNewConstMetric(s.scrapeDurationDesc, prometheus.GaugeValue, duration.Seconds(), name)
	ch <- prometheus.MustNewConstMetric(s.scrapeSuccessDesc, prometheus.GaugeValue, success, name)
}
