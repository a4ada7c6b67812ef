package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samcharles93/ripo/pkg/fat"
)

func TestLoadConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`log_level: debug
log_format: json
output_dir: /tmp/slices
align:
  arm64: 16
  x86: 2
server_address: 0.0.0.0:9000
max_upload_bytes: 1024
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigPath, path)

	got := LoadConfig()
	want := Config{
		LogLevel:       "debug",
		LogFormat:      "json",
		OutputDir:      "/tmp/slices",
		Align:          map[string]uint32{"arm64": 16, "x86": 2},
		ServerAddress:  "0.0.0.0:9000",
		MaxUploadBytes: 1024,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigMissingOrMalformed(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		t.Setenv(envConfigPath, filepath.Join(t.TempDir(), "nope.yaml"))
		if diff := cmp.Diff(Config{}, LoadConfig()); diff != "" {
			t.Fatalf("expected zero config:\n%s", diff)
		}
	})
	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("align: [not a map"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		t.Setenv(envConfigPath, path)
		if diff := cmp.Diff(Config{}, LoadConfig()); diff != "" {
			t.Fatalf("expected zero config:\n%s", diff)
		}
	})
}

func TestConfigAlignFunc(t *testing.T) {
	t.Parallel()

	alignFor, err := Config{Align: map[string]uint32{"aarch64": 16}}.alignFunc()
	if err != nil {
		t.Fatalf("alignFunc: %v", err)
	}
	tests := []struct {
		fam  fat.CPUFamily
		want fat.Align
	}{
		{fat.CPUARM64, 16},
		{fat.CPUARM, 14},
		{fat.CPUX86_64, 12},
	}
	for _, tt := range tests {
		if got := alignFor(tt.fam); got != tt.want {
			t.Fatalf("%s: got %d, want %d", tt.fam, got, tt.want)
		}
	}

	if _, err := (Config{Align: map[string]uint32{"mips": 4}}).alignFunc(); err == nil {
		t.Fatal("expected error for unknown architecture")
	}
	if _, err := (Config{Align: map[string]uint32{"arm": 32}}).alignFunc(); err == nil {
		t.Fatal("expected error for oversized alignment")
	}
}

func TestResolveLogLevel(t *testing.T) {
	fileCfg := Config{LogLevel: "warn"}

	tests := []struct {
		name    string
		flagSet bool
		env     string
		cfg     Config
		want    string
	}{
		{name: "default", want: "info"},
		{name: "config", cfg: fileCfg, want: "warn"},
		{name: "env beats config", env: "error", cfg: fileCfg, want: "error"},
		{name: "flag beats env", flagSet: true, env: "error", cfg: fileCfg, want: "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(envLogLevel, tt.env)
			if got := resolveLogLevel(tt.flagSet, "info", tt.cfg); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
