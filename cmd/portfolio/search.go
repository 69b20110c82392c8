package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/gatherer/respbuilder"
	"github.com/programme-lv/portfolio/internal/gatherer/termgath"
	"github.com/programme-lv/portfolio/internal/portfolio"
	"github.com/urfave/cli/v3"
)

func searchCommand() *cli.Command {
	flags := append(dataFlags(),
		&cli.StringSliceFlag{Name: "groups", Aliases: []string{"g"}, Usage: "group columns whose small groups are merged"},
		&cli.IntFlag{Name: "max-k", Aliases: []string{"k"}, Usage: "largest portfolio size (default: min(3, solvers))"},
		&cli.IntFlag{Name: "beam-width", Aliases: []string{"b"}, Value: portfolio.DefaultBeamWidth, Usage: "portfolios kept per size"},
		&cli.IntFlag{Name: "n-best", Aliases: []string{"n"}, Value: 1, Usage: "portfolios reported per size"},
		&cli.BoolFlag{Name: "exhaustive", Usage: "score every subset of every size"},
		&cli.IntFlag{Name: "workers", Usage: "goroutines scoring one generation (default: GOMAXPROCS)"},
		&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "text, json or yaml"},
		&cli.StringFlag{Name: "nats-subject", Usage: "stream events to this NATS subject (needs NATS_URL)"},
	)
	return &cli.Command{
		Name:   "search",
		Usage:  "find the best portfolios of each size",
		Flags:  flags,
		Action: search,
	}
}

func search(ctx context.Context, c *cli.Command) error {
	req := requestFromFlags(c)
	req.Groups = c.StringSlice("groups")
	req.MaxK = c.Int("max-k")
	req.BeamWidth = c.Int("beam-width")
	req.NBest = c.Int("n-best")
	req.Exhaustive = c.Bool("exhaustive")

	format := c.String("format")
	if format != "text" && format != string(respbuilder.JSON) && format != string(respbuilder.YAML) {
		return fmt.Errorf("unknown output format %q", format)
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
	if n := c.Int("workers"); n > 0 {
		ev.SetWorkers(n)
	}

	var term io.Writer = os.Stdout
	if format != "text" {
		term = os.Stderr
	}
	b := respbuilder.New(req.RunUuid)
	gs := internal.Gatherers{termgath.New(term, name), b}
	remote, closeRemote, err := remoteGatherers(ctx, req, c.String("nats-subject"))
	if err != nil {
		return err
	}
	defer closeRemote()
	gs = append(gs, remote...)

	if err := ev.Search(ctx, gs, req); err != nil {
		return err
	}
	if format == "text" {
		return nil
	}
	return b.Encode(os.Stdout, respbuilder.Format(format))
}
