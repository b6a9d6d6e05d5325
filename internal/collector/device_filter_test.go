// Copyright 2026 The Smartmon Authors
// SPDX-License-Identifier: Apache-2.0

package collector

import "testing"

func TestDeviceFilter(t *testing.T) {
	tests := []struct {
		name    string
		ignore  string
		accept  string
		device  string
		ignored bool
	}{
		{"no patterns", "", "", "/dev/sda", false},
		{"ignore match", `^/dev/loop\d+$`, "", "/dev/loop0", true},
		{"ignore miss", `^/dev/loop\d+$`, "", "/dev/sda", false},
		{"accept match", "", `^/dev/nvme\d+$`, "/dev/nvme0", false},
		{"accept miss", "", `^/dev/nvme\d+$`, "/dev/sda", true},
		{"ignore wins over accept", `sda`, `sd`, "/dev/sda", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDeviceFilter(tt.ignore, tt.accept)
			if got := f.Ignored(tt.device); got != tt.ignored {
				t.Errorf("Ignored(%q) = %v, want %v", tt.device, got, tt.ignored)
			}
		})
	}
}
