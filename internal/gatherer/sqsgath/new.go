package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/portfolio/internal/gatherer/stream"
)

// Sender is the part of *sqs.Client the gatherer uses.
type Sender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSqsResponseQueueGatherer loads the default AWS configuration for region
// and streams search events of one run to the response queue.
func NewSqsResponseQueueGatherer(ctx context.Context, region string, runUuid string, responseSqsUrl string) (*stream.Gatherer, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return New(ctx, sqs.NewFromConfig(cfg), runUuid, responseSqsUrl), nil
}

func New(ctx context.Context, client Sender, runUuid string, responseSqsUrl string) *stream.Gatherer {
	s := &sqsSender{ctx: ctx, sqsClient: client, queueUrl: responseSqsUrl, runUuid: runUuid}
	return stream.New(runUuid, s.send)
}
