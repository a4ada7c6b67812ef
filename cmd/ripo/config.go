package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/ripo/pkg/fat"
)

const (
	envConfigPath = "RIPO_CONFIG"
	envLogLevel   = "RIPO_LOG_LEVEL"
)

// Config represents the ripo configuration file (~/.config/ripo/config.yaml).
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Extract
	OutputDir string `yaml:"output_dir"`

	// Create: alignment exponent per architecture name.
	Align map[string]uint32 `yaml:"align"`

	// Server
	ServerAddress  string `yaml:"server_address"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

func configPath() string {
	if p := env.Str(envConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "ripo", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	logLevel = resolveLogLevel(c.IsSet("log-level"), logLevel, cfg)
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// resolveLogLevel applies flag > RIPO_LOG_LEVEL > config file > flag default.
func resolveLogLevel(flagSet bool, flagValue string, cfg Config) string {
	if flagSet {
		return flagValue
	}
	if v := env.Str(envLogLevel); v != "" {
		return v
	}
	if cfg.LogLevel != "" {
		return cfg.LogLevel
	}
	return flagValue
}

func applyExtractConfig(c *cli.Command, cfg Config, outDir *string) {
	if cfg.OutputDir != "" && !c.IsSet("output") {
		*outDir = cfg.OutputDir
	}
}

func applyServeConfig(c *cli.Command, cfg Config, addr *string, maxUpload *int64) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	if cfg.MaxUploadBytes > 0 && !c.IsSet("max-upload") {
		*maxUpload = cfg.MaxUploadBytes
	}
}

// alignFunc resolves the default alignment for create: config entries first,
// then fat.DefaultAlign.
func (cfg Config) alignFunc() (func(fat.CPUFamily) fat.Align, error) {
	overrides := make(map[fat.CPUFamily]fat.Align, len(cfg.Align))
	for name, exp := range cfg.Align {
		fam, err := fat.ParseCPUFamily(name)
		if err != nil {
			return nil, fmt.Errorf("config align: %w", err)
		}
		if fat.Align(exp) > fat.MaxAlign {
			return nil, fmt.Errorf("config align %s: %w: 2^%d", name, fat.ErrAlignment, exp)
		}
		overrides[fam] = fat.Align(exp)
	}
	return func(c fat.CPUFamily) fat.Align {
		if a, ok := overrides[c]; ok {
			return a
		}
		return fat.DefaultAlign(c)
	}, nil
}
