// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

// Package smartctl invokes the smartmontools smartctl binary in JSON
// output mode and parses its results.
package smartctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// smartctl's exit code is a bitmask. Bits 0 and 1 mean the command line
// did not parse or the device could not be opened; with those set there
// is no usable output. Higher bits (SMART command failed, disk failing,
// prefail attributes below threshold, errors logged) still come with a
// full JSON document and are reported through metrics instead.
const exitFatalMask = 0x03

// Device is a single storage device as reported by `smartctl --scan-open`.
type Device struct {
	Name string // e.g. /dev/sda, /dev/nvme0
	Type string // e.g. sat, scsi, nvme
}

// VersionInfo describes the smartctl build.
type VersionInfo struct {
	Version      string
	SVNRevision  string
	PlatformInfo string
	BuildInfo    string
}

// Client is the operation surface collectors consume. Tests substitute
// fixture-backed fakes.
type Client interface {
	Version(ctx context.Context) (VersionInfo, error)
	Scan(ctx context.Context) ([]Device, error)
	All(ctx context.Context, dev Device) (gjson.Result, error)
}

// Runner invokes the real smartctl binary.
type Runner struct {
	path    string
	timeout time.Duration
	logger  *slog.Logger
}

func New(path string, timeout time.Duration, logger *slog.Logger) *Runner {
	return &Runner{path: path, timeout: timeout, logger: logger}
}

// run executes smartctl with --json plus the given flags and returns the
// parsed document.
func (r *Runner) run(ctx context.Context, args ...string) (gjson.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	argv := append([]string{"--json"}, args...)
	out, err := exec.CommandContext(ctx, r.path, argv...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return gjson.Result{}, fmt.Errorf("smartctl %s: %w", strings.Join(args, " "), err)
		}
		code := exitErr.ExitCode()
		if code&exitFatalMask != 0 {
			return gjson.Result{}, fmt.Errorf("smartctl %s: exit status %d", strings.Join(args, " "), code)
		}
		r.logger.Debug("smartctl returned nonzero exit status",
			"args", strings.Join(args, " "),
			"exit_code", code)
	}

	if !gjson.ValidBytes(out) {
		return gjson.Result{}, fmt.Errorf("smartctl %s: invalid JSON output", strings.Join(args, " "))
	}
	return gjson.ParseBytes(out), nil
}

// Version reports the smartctl build info from `smartctl --version`.
func (r *Runner) Version(ctx context.Context) (VersionInfo, error) {
	doc, err := r.run(ctx, "--version")
	if err != nil {
		return VersionInfo{}, err
	}
	tool := doc.Get("smartctl")
	if !tool.Exists() {
		return VersionInfo{}, errors.New("smartctl --version: missing smartctl object")
	}
	parts := make([]string, 0, 2)
	for _, v := range tool.Get("version").Array() {
		parts = append(parts, v.String())
	}
	return VersionInfo{
		Version:      strings.Join(parts, "."),
		SVNRevision:  tool.Get("svn_revision").String(),
		PlatformInfo: tool.Get("platform_info").String(),
		BuildInfo:    tool.Get("build_info").String(),
	}, nil
}

// Scan enumerates devices via `smartctl --scan-open`.
func (r *Runner) Scan(ctx context.Context) ([]Device, error) {
	doc, err := r.run(ctx, "--scan-open")
	if err != nil {
		return nil, err
	}
	var devices []Device
	for _, d := range doc.Get("devices").Array() {
		devices = append(devices, Device{
			Name: d.Get("name").String(),
			Type: d.Get("type").String(),
		})
	}
	return devices, nil
}

// All fetches the full telemetry document for one device
// (`smartctl --all <device>`). The device type from the scan is passed
// through so smartctl does not have to re-guess the transport.
func (r *Runner) All(ctx context.Context, dev Device) (gjson.Result, error) {
	args := []string{"--all", dev.Name}
	if dev.Type != "" {
		args = append(args, "-d", dev.Type)
	}
	return r.run(ctx, args...)
}
