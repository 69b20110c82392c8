package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/gatherer/respbuilder"
	"github.com/programme-lv/portfolio/internal/worker"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve search requests from an SQS queue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "queue", Usage: "request queue url", Required: true},
			&cli.StringFlag{Name: "nats-subject", Value: "portfolio.results", Usage: "stream events to this NATS subject (needs NATS_URL)"},
		},
		Action: serve,
	}
}

func serve(ctx context.Context, c *cli.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(env.AwsRegion))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}
	ev, err := newEvaluator(ctx)
	if err != nil {
		return err
	}

	subject := c.String("nats-subject")
	gatherer := func(ctx context.Context, req api.SearchReq) (internal.ResultGatherer, error) {
		gs, closeRemote, err := remoteGatherers(ctx, req, subject)
		if err != nil {
			return nil, err
		}
		if len(gs) == 0 {
			closeRemote()
			return nil, fmt.Errorf("run %s has no result destination", req.RunUuid)
		}
		return append(gs, &closer{Builder: respbuilder.New(req.RunUuid), close: closeRemote}), nil
	}

	slog.Info("serving search requests", "queue", c.String("queue"))
	return worker.New(sqs.NewFromConfig(cfg), c.String("queue"), ev, gatherer).Run(ctx)
}

// closer releases the request's connections once its last event is sent and
// logs the outcome.
type closer struct {
	*respbuilder.Builder
	close func()
}

func (c *closer) InternalError(msg string) {
	c.Builder.InternalError(msg)
	c.close()
}

func (c *closer) FinishNoError() {
	c.Builder.FinishNoError()
	resp := c.Response()
	slog.Info("search response sent", "run", resp.RunUuid, "records", len(resp.Records), "ms", resp.TotalTimeMs)
	c.close()
}
