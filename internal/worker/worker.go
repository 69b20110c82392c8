// Package worker serves search requests from an SQS queue.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
)

// Queue is the part of *sqs.Client the worker uses.
type Queue interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type Searcher interface {
	Search(ctx context.Context, gath internal.ResultGatherer, req api.SearchReq) error
}

// GathererFunc picks where the events of one request go.
type GathererFunc func(ctx context.Context, req api.SearchReq) (internal.ResultGatherer, error)

type Worker struct {
	queue    Queue
	queueUrl string
	searcher Searcher
	gatherer GathererFunc

	// long-poll duration of one receive call
	WaitTimeSeconds int32
}

func New(queue Queue, queueUrl string, searcher Searcher, gatherer GathererFunc) *Worker {
	return &Worker{
		queue:           queue,
		queueUrl:        queueUrl,
		searcher:        searcher,
		gatherer:        gatherer,
		WaitTimeSeconds: 5,
	}
}

// Run polls the queue until ctx is done.
func (w *Worker) Run(ctx context.Context) error {
	for {
		_, err := w.Poll(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			slog.Error("failed to receive messages", "queue", w.queueUrl, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Poll receives one message at most, serves it and deletes it. Requests that
// cannot be decoded or fail to evaluate are deleted as well, since their
// errors are deterministic; the failure is reported to the request's
// gatherer when there is one.
func (w *Worker) Poll(ctx context.Context) (int, error) {
	out, err := w.queue.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(w.queueUrl),
		MaxNumberOfMessages: 1,
		WaitTimeSeconds:     w.WaitTimeSeconds,
	})
	if err != nil {
		return 0, err
	}
	for _, msg := range out.Messages {
		w.serve(ctx, msg)
		if ctx.Err() != nil {
			// leave the message for redelivery
			return len(out.Messages), ctx.Err()
		}
		_, err := w.queue.DeleteMessage(ctx, &sqs.DeleteMessageInput{
			QueueUrl:      aws.String(w.queueUrl),
			ReceiptHandle: msg.ReceiptHandle,
		})
		if err != nil {
			slog.Error("failed to delete message", "message", aws.ToString(msg.MessageId), "error", err)
		}
	}
	return len(out.Messages), nil
}

func (w *Worker) serve(ctx context.Context, msg types.Message) {
	var req api.SearchReq
	if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &req); err != nil {
		slog.Error("failed to unmarshal request", "message", aws.ToString(msg.MessageId), "error", err)
		return
	}
	if req.RunUuid == "" {
		req.RunUuid = uuid.NewString()
	}
	log := slog.With("run", req.RunUuid)

	gath, err := w.gatherer(ctx, req)
	if err != nil {
		log.Error("failed to create result gatherer", "error", err)
		return
	}
	start := time.Now()
	err = w.searcher.Search(ctx, gath, req)
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		log.Warn("search failed", "error", err)
		return
	}
	log.Info("search finished", "elapsed", time.Since(start))
}
