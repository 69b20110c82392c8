package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/programme-lv/portfolio/internal/environment"
	"github.com/urfave/cli/v3"
)

var env *environment.EnvConfig

func main() {
	cmd := &cli.Command{
		Name:  "portfolio",
		Usage: "select solver portfolios from benchmark runtimes",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "env", Usage: ".env files to load"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log at debug level"},
		},
		Before: setup,
		Commands: []*cli.Command{
			searchCommand(),
			scoresCommand(),
			runCommand(),
			serveCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setup(ctx context.Context, c *cli.Command) (context.Context, error) {
	var err error
	env, err = environment.ReadEnvConfig(c.StringSlice("env")...)
	if err != nil {
		return ctx, err
	}
	level := env.LogLevel
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
	return ctx, nil
}
