package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/ripo/internal/logger"
)

func main() {
	app := &cli.Command{
		Name:  "ripo",
		Usage: "Inspect, build and thin universal (fat) binaries",
		Flags: loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg = LoadConfig()
			applyLoggingConfig(cmd, cfg)
			level := logger.ParseLevel(logLevel)
			if debug {
				level = logger.ParseLevel("debug")
			}
			log := logger.Setup(os.Stderr, logFormat, level)
			// Library code logging through slog directly shares the CLI handler.
			slog.SetDefault(log.Slog())
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			archsCmd(),
			infoCmd(),
			createCmd(),
			extractCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
