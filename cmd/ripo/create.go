package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ripo/internal/logger"
	"github.com/samcharles93/ripo/internal/thin"
	"github.com/samcharles93/ripo/pkg/fat"
)

func createCmd() *cli.Command {
	var out string

	return &cli.Command{
		Name:      "create",
		Usage:     "Build a universal binary from per-architecture payloads",
		ArgsUsage: "<arch[:subtype[:align]]=path>...",
		Flags: []cli.Flag{
			outputFlag(&out, "output file"),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if strings.TrimSpace(out) == "" {
				return cli.Exit("create: --output is required", 2)
			}
			if cmd.Args().Len() == 0 {
				return cli.Exit("create: at least one <arch=path> input is required", 2)
			}
			return runCreate(ctx, cfg, out, cmd.Args().Slice())
		},
	}
}

func runCreate(ctx context.Context, cfg Config, out string, specs []string) error {
	log := logger.FromContext(ctx)

	alignFor, err := cfg.alignFunc()
	if err != nil {
		return err
	}
	inputs := make([]thin.Input, 0, len(specs))
	for _, s := range specs {
		in, err := thin.ParseInput(s)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}
		inputs = append(inputs, in)
	}
	entries, err := thin.Load(inputs, alignFor)
	if err != nil {
		return err
	}

	out = filepath.Clean(out)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o755)
	if err != nil {
		return err
	}
	n, err := fat.Write(f, entries)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(out)
		return err
	}
	log.Info("built container", "path", out, "arches", len(entries), "size", n)
	return nil
}
