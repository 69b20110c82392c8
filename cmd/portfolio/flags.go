package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/evaluator"
	"github.com/programme-lv/portfolio/internal/filestore"
	"github.com/programme-lv/portfolio/internal/gatherer/natsgath"
	"github.com/programme-lv/portfolio/internal/gatherer/sqsgath"
	"github.com/programme-lv/portfolio/internal/names"
	"github.com/programme-lv/portfolio/internal/s3downl"
	"github.com/programme-lv/portfolio/internal/xdg"
	"github.com/urfave/cli/v3"
)

func dataFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "data", Aliases: []string{"d"}, Usage: "runtime tables (csv or csv.zst), joined on the key column", Required: true},
		&cli.StringFlag{Name: "key", Value: "hash", Usage: "instance key column"},
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: `row filter, e.g. "track = main_2023 and family != unknown"`},
		&cli.StringSliceFlag{Name: "solvers", Aliases: []string{"s"}, Usage: "solver columns", Required: true},
		&cli.StringSliceFlag{Name: "vbs", Usage: "reference solvers of the virtual best solver (default: --solvers)"},
		&cli.FloatFlag{Name: "max-runtime", Value: 5000, Usage: "timeout threshold"},
		&cli.FloatFlag{Name: "penalty", Value: 2, Usage: "penalty factor for timeouts and errors"},
		&cli.IntFlag{Name: "min-group-size", Value: 5, Usage: "smaller groups are merged into one bucket"},
		&cli.StringFlag{Name: "names", Usage: "TOML table of display names"},
	}
}

func requestFromFlags(c *cli.Command) api.SearchReq {
	req := api.SearchReq{
		RunUuid:      uuid.NewString(),
		Key:          c.String("key"),
		Query:        c.String("query"),
		Solvers:      c.StringSlice("solvers"),
		VbsSolvers:   c.StringSlice("vbs"),
		MaxRuntime:   c.Float("max-runtime"),
		Penalty:      c.Float("penalty"),
		MinGroupSize: c.Int("min-group-size"),
	}
	for _, p := range c.StringSlice("data") {
		req.Sources = append(req.Sources, api.Source{Path: &p})
	}
	return req
}

// newEvaluator wires a file store for remote tables into the evaluator. The
// store downloads until ctx is done.
func newEvaluator(ctx context.Context) (*evaluator.Evaluator, error) {
	dir := env.CacheDir
	if dir == "" {
		dir = xdg.NewLayout().CacheDir()
	}
	d, err := s3downl.New(ctx, env.AwsRegion)
	if err != nil {
		return nil, err
	}
	files, tmp := xdg.StoreDirs(dir)
	fs, err := filestore.New(files, tmp, d.Download)
	if err != nil {
		return nil, err
	}
	go fs.Start(ctx)
	return evaluator.NewEvaluator(fs), nil
}

func resolver(c *cli.Command) (names.Resolver, error) {
	path := c.String("names")
	if path == "" {
		def := xdg.NewLayout().NamesFile()
		if _, err := os.Stat(def); err == nil {
			path = def
		}
	}
	return names.Load(path)
}

// remoteGatherers streams events to NATS and SQS when they are configured.
// The returned function releases the connections.
func remoteGatherers(ctx context.Context, req api.SearchReq, subject string) (internal.Gatherers, func(), error) {
	var gs internal.Gatherers
	closeAll := func() {}
	if env.NatsUrl != "" && subject != "" {
		nc, err := nats.Connect(env.NatsUrl)
		if err != nil {
			return nil, closeAll, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		closeAll = func() {
			if err := nc.Drain(); err != nil {
				nc.Close()
			}
		}
		gs = append(gs, natsgath.New(nc, req.RunUuid, subject))
	}
	queue := req.ResSqsUrl
	if queue == "" {
		queue = env.ResultSqsUrl
	}
	if queue != "" {
		g, err := sqsgath.NewSqsResponseQueueGatherer(ctx, env.AwsRegion, req.RunUuid, queue)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		gs = append(gs, g)
	}
	return gs, closeAll, nil
}
