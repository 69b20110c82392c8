package main

import (
	"context"
	"os"

	"github.com/programme-lv/portfolio/internal/evaluator"
	"github.com/programme-lv/portfolio/internal/gatherer/termgath"
	"github.com/programme-lv/portfolio/internal/scores"
	"github.com/urfave/cli/v3"
)

func scoresCommand() *cli.Command {
	flags := append(dataFlags(),
		&cli.StringFlag{Name: "group", Aliases: []string{"g"}, Value: "family", Usage: "group column"},
		&cli.StringFlag{Name: "sort", Value: string(scores.ByCount), Usage: "count, diff, quot, diff2 or quot2"},
	)
	return &cli.Command{
		Name:   "scores",
		Usage:  "print mean runtimes per group",
		Flags:  flags,
		Action: printScores,
	}
}

func printScores(ctx context.Context, c *cli.Command) error {
	req := evaluator.WithDefaults(requestFromFlags(c))
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
	group := c.String("group")
	rows, columns, err := ev.GroupScores(ctx, req, group, scores.SortKey(c.String("sort")))
	if err != nil {
		return err
	}
	termgath.WriteScores(os.Stdout, group, columns, rows, name)
	return nil
}
