// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/platformbuilds/smartmon/internal/smartctl"
)

const toolCollectorName = "tool"

func init() {
	Register(toolCollectorName, true, NewToolCollector)
}

// toolCollector exposes the smartctl build as an info metric.
type toolCollector struct {
	client  smartctl.Client
	timeout time.Duration
	info    typedDesc
}

// NewToolCollector creates the smartmontools info collector.
func NewToolCollector(cfg Config) (Collector, error) {
	return &toolCollector{
		client:  cfg.Client,
		timeout: cfg.Timeout,
		info: typedDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(Namespace, "", "info"),
				"smartmontools information.",
				[]string{"version", "svn_revision", "platform_info", "build_info"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
	}, nil
}

// Update implements the Collector interface.
func (c *toolCollector) Update(ch chan<- prometheus.Metric) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	v, err := c.client.Version(ctx)
	if err != nil {
		return fmt.Errorf("smartctl version: %w", err)
	}
	ch <- c.info.mustNewConstMetric(1, v.Version, v.SVNRevision, v.PlatformInfo, v.BuildInfo)
	return nil
}
