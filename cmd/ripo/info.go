package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ripo/internal/report"
	"github.com/samcharles93/ripo/pkg/fat"
)

func infoCmd() *cli.Command {
	var asJSON, verify bool

	return &cli.Command{
		Name:      "info",
		Usage:     "Print the fat header and every architecture descriptor",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print a JSON report", Destination: &asJSON},
			&cli.BoolFlag{Name: "verify", Usage: "check bounds, alignment and overlap", Destination: &verify},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path, err := requireFileArg(cmd)
			if err != nil {
				return err
			}
			return runInfo(ctx, os.Stdout, path, asJSON, verify)
		},
	}
}

func runInfo(ctx context.Context, w io.Writer, path string, asJSON, verify bool) error {
	var verr error
	r, err := openReport(ctx, path, func(f *fat.File) error {
		if verify {
			verr = f.Verify()
		}
		return nil
	})
	if err != nil {
		return err
	}
	if asJSON {
		err = report.WriteJSON(w, r)
	} else {
		err = report.WriteText(w, r)
	}
	if err != nil {
		return err
	}
	if verr != nil {
		return cli.Exit(fmt.Sprintf("%s: verify failed:\n%v", path, verr), 1)
	}
	return nil
}
