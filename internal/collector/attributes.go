// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

// attrMetric maps one field of the smartctl document onto a metric:
// which metric to emit, where in the JSON to read the value, and an
// optional numeric transform. All attribute metrics carry the device
// label.
type attrMetric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	// path is a gjson path, relative to the ATA attribute object for
	// ataAttributes and to nvme_smart_health_information_log for
	// nvmeHealthMetrics.
	path      string
	transform func(gjson.Result) float64
}

func attrDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc(
		prometheus.BuildFQName(Namespace, "", name),
		help,
		[]string{"device"},
		nil,
	)
}

func rawCounter(name, help string) attrMetric {
	return attrMetric{
		desc:      attrDesc(name, help),
		valueType: prometheus.CounterValue,
		path:      "raw.value",
	}
}

// ataAttributes maps S.M.A.R.T. attribute IDs found in
// ata_smart_attributes.table to metrics. Attributes absent from this
// table are not exported.
var ataAttributes = map[int64]attrMetric{
	4:   rawCounter("starts_stops_total", "Count of start/stop cycles."),
	5:   rawCounter("reallocated_sectors_total", "Count of reallocated sectors."),
	9:   rawCounter("power_on_hours", "Count of hours in power-on state."),
	10:  rawCounter("spin_retries_total", "Count of retries of spin start attempts."),
	12:  rawCounter("power_cycles_total", "Count of full power on/off cycles."),
	187: rawCounter("reported_uncorrectable_errors_total", "Count of errors that could not be recovered using hardware ECC."),
	188: rawCounter("command_timeouts_total", "Count of aborted operations due to device timeout."),
	190: {
		desc:      attrDesc("airflow_temperature_celsius", "Airflow temperature."),
		valueType: prometheus.GaugeValue,
		// The normalized value is 100 minus the temperature.
		path:      "value",
		transform: func(v gjson.Result) float64 { return 100 - v.Float() },
	},
	193: rawCounter("load_cycles_total", "Count of load/unload cycles into head landing zone position."),
	194: {
		desc:      attrDesc("temperature_celsius", "Device temperature."),
		valueType: prometheus.GaugeValue,
		// The raw value packs min/max into the upper bytes; the string
		// form leads with the current temperature, e.g. "31 (Min/Max 19/45)".
		path:      "raw.string",
		transform: firstFieldFloat,
	},
	196: rawCounter("reallocated_events_total", "Count of remap operations."),
	197: {
		desc:      attrDesc("current_pending_sectors", "Count of unstable sectors waiting to be remapped."),
		valueType: prometheus.GaugeValue,
		path:      "raw.value",
	},
	198: rawCounter("offline_uncorrectable_sectors_total", "Count of uncorrectable errors when reading/writing a sector."),
}

// NVMe data units are reported in thousands of 512-byte units.
const nvmeDataUnitBytes = 512_000

// nvmeHealthMetrics maps fields of the NVMe health information log
// (smartctl's nvme_smart_health_information_log object) to metrics.
var nvmeHealthMetrics = []attrMetric{
	{
		desc:      attrDesc("critical_warning", "NVMe critical warning flags; nonzero indicates a problem."),
		valueType: prometheus.GaugeValue,
		path:      "critical_warning",
	},
	{
		desc:      attrDesc("temperature_celsius", "Device temperature."),
		valueType: prometheus.GaugeValue,
		path:      "temperature",
	},
	{
		desc:      attrDesc("available_spare_ratio", "Remaining NVMe spare capacity, 0-1."),
		valueType: prometheus.GaugeValue,
		path:      "available_spare",
		transform: func(v gjson.Result) float64 { return v.Float() / 100 },
	},
	{
		desc:      attrDesc("percentage_used_ratio", "Vendor estimate of NVMe device life used, 0-1 (may exceed 1)."),
		valueType: prometheus.GaugeValue,
		path:      "percentage_used",
		transform: func(v gjson.Result) float64 { return v.Float() / 100 },
	},
	{
		desc:      attrDesc("data_units_read_bytes", "Bytes read from the NVMe device."),
		valueType: prometheus.CounterValue,
		path:      "data_units_read",
		transform: func(v gjson.Result) float64 { return v.Float() * nvmeDataUnitBytes },
	},
	{
		desc:      attrDesc("data_units_written_bytes", "Bytes written to the NVMe device."),
		valueType: prometheus.CounterValue,
		path:      "data_units_written",
		transform: func(v gjson.Result) float64 { return v.Float() * nvmeDataUnitBytes },
	},
	{
		desc:      attrDesc("power_cycles_total", "Count of full power on/off cycles."),
		valueType: prometheus.CounterValue,
		path:      "power_cycles",
	},
	{
		desc:      attrDesc("power_on_hours", "Count of hours in power-on state."),
		valueType: prometheus.CounterValue,
		path:      "power_on_hours",
	},
	{
		desc:      attrDesc("unsafe_shutdowns_total", "Count of unsafe shutdowns."),
		valueType: prometheus.CounterValue,
		path:      "unsafe_shutdowns",
	},
	{
		desc:      attrDesc("media_errors_total", "Count of unrecovered data integrity errors."),
		valueType: prometheus.CounterValue,
		path:      "media_errors",
	},
	{
		desc:      attrDesc("error_log_entries_total", "Count of error log entries over the device lifetime."),
		valueType: prometheus.CounterValue,
		path:      "num_err_log_entries",
	},
}

// value applies the transform, defaulting to the plain numeric value.
func (m *attrMetric) value(v gjson.Result) float64 {
	if m.transform == nil {
		return v.Float()
	}
	return m.transform(v)
}

// firstFieldFloat parses the leading whitespace-separated token as a float.
func firstFieldFloat(v gjson.Result) float64 {
	fields := strings.Fields(v.String())
	if len(fields) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return f
}
