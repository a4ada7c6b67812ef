package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ripo/internal/logger"
	"github.com/samcharles93/ripo/internal/report"
	"github.com/samcharles93/ripo/pkg/fat"
)

func archsCmd() *cli.Command {
	var asJSON, asTable bool

	return &cli.Command{
		Name:      "archs",
		Usage:     "List the architectures in a universal binary",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print a JSON report", Destination: &asJSON},
			&cli.BoolFlag{Name: "table", Usage: "print a descriptor table", Destination: &asTable},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireFileArg(cmd)
			if err != nil {
				return err
			}
			return runArchs(ctx, os.Stdout, path, asJSON, asTable)
		},
	}
}

func runArchs(ctx context.Context, w io.Writer, path string, asJSON, asTable bool) error {
	r, err := openReport(ctx, path, nil)
	if err != nil {
		return err
	}
	switch {
	case asJSON:
		return report.WriteJSON(w, r)
	case asTable:
		return report.WriteTable(w, r)
	default:
		return report.WriteNames(w, r)
	}
}

// openReport parses path and hands the open file to inspect before closing it.
func openReport(ctx context.Context, path string, inspect func(*fat.File) error) (report.Report, error) {
	log := logger.FromContext(ctx)
	f, err := fat.Open(path)
	if err != nil {
		return report.Report{}, cli.Exit(err.Error(), 1)
	}
	defer func() { _ = f.Close() }()
	log.Debug("opened container", "path", path, "size", f.Size(), "arches", len(f.Arches))

	if inspect != nil {
		if err := inspect(f); err != nil {
			return report.Report{}, err
		}
	}
	return report.New(path, f), nil
}

func requireFileArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", cli.Exit(cmd.Name+": exactly one <file> argument is required", 2)
	}
	return cmd.Args().First(), nil
}
