package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smartmon.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Endpoint.Port != 9541 {
		t.Errorf("port = %d, want 9541", c.Endpoint.Port)
	}
	if c.Endpoint.Path != "/metrics" {
		t.Errorf("path = %q, want /metrics", c.Endpoint.Path)
	}
	if got := c.Smartctl.Timeout(); got != 30*time.Second {
		t.Errorf("timeout = %v, want 30s", got)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
endpoint:
  port: 9633
smartctl:
  path: /usr/sbin/smartctl
  timeout: 10s
  devices: ["/dev/sda", "/dev/nvme0"]
  ignore: "^(ram|loop)\\d+$"
collectors:
  tool: false
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Endpoint.Port != 9633 {
		t.Errorf("port = %d, want 9633", c.Endpoint.Port)
	}
	// Unset fields keep defaults.
	if c.Endpoint.Path != "/metrics" {
		t.Errorf("path = %q, want default /metrics", c.Endpoint.Path)
	}
	if c.Smartctl.Path != "/usr/sbin/smartctl" {
		t.Errorf("smartctl path = %q", c.Smartctl.Path)
	}
	if got := c.Smartctl.Timeout(); got != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", got)
	}
	if len(c.Smartctl.Devices) != 2 {
		t.Errorf("devices = %v, want 2 entries", c.Smartctl.Devices)
	}
	if c.IsCollectorEnabled("tool", true) {
		t.Error("tool collector should be disabled by override")
	}
	if !c.IsCollectorEnabled("device", true) {
		t.Error("device collector should keep its default")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "endpoint: ["},
		{"bad port", "endpoint:\n  port: 70000\n"},
		{"bad timeout", "smartctl:\n  timeout: soon\n"},
		{"bad filter regex", "smartctl:\n  ignore: '(['\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestTimeoutFallback(t *testing.T) {
	s := Smartctl{TimeoutStr: ""}
	if got := s.Timeout(); got != 30*time.Second {
		t.Errorf("timeout = %v, want 30s fallback", got)
	}
	s.TimeoutStr = "-5s"
	if got := s.Timeout(); got != 30*time.Second {
		t.Errorf("negative timeout = %v, want 30s fallback", got)
	}
}
