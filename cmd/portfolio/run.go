package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/gatherer/respbuilder"
	"github.com/programme-lv/portfolio/internal/gatherer/termgath"
	"github.com/programme-lv/portfolio/internal/plan"
	"github.com/urfave/cli/v3"
)

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run every scenario of an evaluation plan and check its expectations",
		ArgsUsage: "<plan.toml>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "names", Usage: "TOML table of display names"},
		},
		Action: runPlan,
	}
}

func runPlan(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one plan file")
	}
	cases, err := plan.Parse(c.Args().First())
	if err != nil {
		return err
	}
	name, err := resolver(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	ev, err := newEvaluator(ctx)
	if err != nil {
		return err
	}

	failed := 0
	for _, tc := range cases {
		color.New(color.Bold, color.FgCyan).Printf("### %s\n", tc.Name)
		b := respbuilder.New(tc.Request.RunUuid)
		err := ev.Search(ctx, internal.Gatherers{termgath.New(os.Stdout, name), b}, tc.Request)
		if err == nil {
			err = tc.Check(b.Response())
		}
		if err != nil {
			failed++
			slog.Error("scenario failed", "scenario", tc.Name, "error", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(cases))
	}
	return nil
}
