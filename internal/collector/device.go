// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"

	"github.com/platformbuilds/smartmon/internal/smartctl"
)

const deviceCollectorName = "device"

func init() {
	Register(deviceCollectorName, true, NewDeviceCollector)
}

// deviceCollector polls every storage device with `smartctl --all` and
// maps the resulting document onto metrics. Telemetry is fetched fresh
// on every scrape; there is no cache and no state across scrapes.
type deviceCollector struct {
	client  smartctl.Client
	devices []string
	filter  DeviceFilter
	logger  *slog.Logger
	timeout time.Duration

	info    typedDesc
	healthy typedDesc
}

// NewDeviceCollector creates the device collector.
func NewDeviceCollector(cfg Config) (Collector, error) {
	return &deviceCollector{
		client:  cfg.Client,
		devices: cfg.Devices,
		filter:  cfg.Filter,
		logger:  cfg.Logger,
		timeout: cfg.Timeout,
		info: typedDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(Namespace, "device", "info"),
				"S.M.A.R.T. device information.",
				[]string{"device", "type", "protocol", "model_family", "serial_number", "wwn", "firmware_version"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
		healthy: typedDesc{
			desc: prometheus.NewDesc(
				prometheus.BuildFQName(Namespace, "smart", "healthy"),
				"Whether the device is healthy according to S.M.A.R.T.",
				[]string{"device"},
				nil,
			),
			valueType: prometheus.GaugeValue,
		},
	}, nil
}

// Update implements the Collector interface. A subprocess or parse
// failure on any device fails the whole pass; there is no
// partial-result policy and no retry.
func (c *deviceCollector) Update(ch chan<- prometheus.Metric) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	devices, err := c.enumerate(ctx)
	if err != nil {
		return fmt.Errorf("enumerate devices: %w", err)
	}
	if len(devices) == 0 {
		return ErrNoData
	}

	for _, dev := range devices {
		data, err := c.client.All(ctx, dev)
		if err != nil {
			return fmt.Errorf("device %s: %w", dev.Name, err)
		}
		c.collectDevice(ch, dev.Name, data)
	}
	return nil
}

// enumerate returns the devices to poll: the configured list if one was
// given, otherwise a scan, filtered by the include/exclude patterns.
func (c *deviceCollector) enumerate(ctx context.Context) ([]smartctl.Device, error) {
	if len(c.devices) > 0 {
		devices := make([]smartctl.Device, 0, len(c.devices))
		for _, name := range c.devices {
			devices = append(devices, smartctl.Device{Name: name})
		}
		return devices, nil
	}

	scanned, err := c.client.Scan(ctx)
	if err != nil {
		return nil, err
	}
	devices := scanned[:0]
	for _, dev := range scanned {
		if c.filter.Ignored(dev.Name) {
			c.logger.Debug("device ignored by filter", "device", dev.Name)
			continue
		}
		devices = append(devices, dev)
	}
	return devices, nil
}

// collectDevice emits all metrics for one device document.
func (c *deviceCollector) collectDevice(ch chan<- prometheus.Metric, device string, data gjson.Result) {
	ch <- c.info.mustNewConstMetric(1,
		device,
		data.Get("device.type").String(),
		data.Get("device.protocol").String(),
		// model_family is absent for NVMe drives and for drives missing
		// from the smartmontools drive database.
		data.Get("model_family").String(),
		data.Get("serial_number").String(),
		formatWWN(data.Get("wwn")),
		data.Get("firmware_version").String(),
	)

	if status := data.Get("smart_status.passed"); status.Exists() {
		var healthy float64
		if status.Bool() {
			healthy = 1
		}
		ch <- c.healthy.mustNewConstMetric(healthy, device)
	}

	for _, attr := range data.Get("ata_smart_attributes.table").Array() {
		m, ok := ataAttributes[attr.Get("id").Int()]
		if !ok {
			continue
		}
		v := attr.Get(m.path)
		if !v.Exists() {
			continue
		}
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(v), device)
	}

	if log := data.Get("nvme_smart_health_information_log"); log.Exists() {
		for i := range nvmeHealthMetrics {
			m := &nvmeHealthMetrics[i]
			v := log.Get(m.path)
			if !v.Exists() {
				continue
			}
			ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.value(v), device)
		}
	}
}

// formatWWN renders the world-wide name as "naa oui id" in hex, the
// empty string when the device reports none.
func formatWWN(wwn gjson.Result) string {
	if !wwn.Exists() {
		return ""
	}
	return fmt.Sprintf("%x %06x %09x",
		wwn.Get("naa").Uint(),
		wwn.Get("oui").Uint(),
		wwn.Get("id").Uint(),
	)
}
