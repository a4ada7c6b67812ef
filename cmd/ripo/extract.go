package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ripo/internal/logger"
	"github.com/samcharles93/ripo/internal/thin"
	"github.com/samcharles93/ripo/pkg/fat"
)

func extractCmd() *cli.Command {
	var (
		arches   []string
		outDir   string
		progress bool
	)

	return &cli.Command{
		Name:      "extract",
		Usage:     "Write architecture slices out as standalone files",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "arch",
				Aliases:     []string{"a"},
				Usage:       "architecture to extract (name, name:subtype or index); repeatable, default all",
				Destination: &arches,
			},
			outputFlag(&outDir, "output directory"),
			&cli.BoolFlag{
				Name:        "progress",
				Usage:       "draw a progress bar per slice",
				Destination: &progress,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireFileArg(cmd)
			if err != nil {
				return err
			}
			applyExtractConfig(cmd, cfg, &outDir)
			var bar io.Writer
			if progress {
				bar = os.Stderr
			}
			_, err = runExtract(ctx, path, outDir, arches, bar)
			return err
		},
	}
}

// runExtract returns the paths it wrote, in selection order.
func runExtract(ctx context.Context, path, outDir string, names []string, progress io.Writer) ([]string, error) {
	log := logger.FromContext(ctx)

	f, err := fat.Open(path)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	defer func() { _ = f.Close() }()

	selected, err := thin.Select(f.Arches, names)
	if err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	base := filepath.Base(path)
	written := make([]string, 0, len(selected))
	for _, i := range selected {
		a := f.Arches[i]
		dst := thin.OutputPath(outDir, base, f.Arches, i)
		n, err := thin.WriteSlice(f, a, dst, progress)
		if err != nil {
			return written, err
		}
		log.Info("wrote slice", "arch", a.String(), "subtype", a.Subtype, "path", dst, "bytes", n)
		written = append(written, dst)
	}
	return written, nil
}
