package worker_test

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal"
	"github.com/programme-lv/portfolio/internal/mocks"
	"github.com/programme-lv/portfolio/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type queue struct {
	pending []types.Message
	deleted []string
}

func (q *queue) ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	if len(q.pending) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	msg := q.pending[0]
	q.pending = q.pending[1:]
	return &sqs.ReceiveMessageOutput{Messages: []types.Message{msg}}, nil
}

func (q *queue) DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.deleted = append(q.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

var _ worker.Queue = (*sqs.Client)(nil)

type searcher struct {
	reqs []api.SearchReq
}

func (s *searcher) Search(ctx context.Context, gath internal.ResultGatherer, req api.SearchReq) error {
	s.reqs = append(s.reqs, req)
	gath.FinishNoError()
	return nil
}

func message(handle, body string) types.Message {
	return types.Message{MessageId: aws.String(handle), ReceiptHandle: aws.String(handle), Body: aws.String(body)}
}

func TestPoll(t *testing.T) {
	q := &queue{pending: []types.Message{
		message("r1", `{"run_uuid":"run-1","solvers":["a","b"],"max_k":2}`),
		message("r2", `{not json`),
		message("r3", `{"solvers":["a"]}`),
	}}
	s := &searcher{}

	ctrl := gomock.NewController(t)
	gathMock := mocks.NewMockResultGatherer(ctrl)
	gathMock.EXPECT().FinishNoError().Times(2)

	var targets []string
	w := worker.New(q, "https://sqs/req", s, func(ctx context.Context, req api.SearchReq) (internal.ResultGatherer, error) {
		targets = append(targets, req.RunUuid)
		return gathMock, nil
	})

	for range 3 {
		n, err := w.Poll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	}
	n, err := w.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	assert.Equal(t, []string{"r1", "r2", "r3"}, q.deleted)
	require.Len(t, s.reqs, 2)
	assert.Equal(t, "run-1", s.reqs[0].RunUuid)
	assert.Equal(t, []string{"a", "b"}, s.reqs[0].Solvers)
	assert.NotEmpty(t, s.reqs[1].RunUuid)
	assert.Equal(t, []string{"run-1", s.reqs[1].RunUuid}, targets)
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := worker.New(&queue{}, "https://sqs/req", &searcher{}, nil)
	require.NoError(t, w.Run(ctx))
}
