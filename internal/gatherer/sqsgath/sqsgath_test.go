package sqsgath_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/portfolio/api"
	"github.com/programme-lv/portfolio/internal/gatherer/sqsgath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queue struct {
	inputs []*sqs.SendMessageInput
}

func (q *queue) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	q.inputs = append(q.inputs, params)
	return &sqs.SendMessageOutput{}, nil
}

var _ sqsgath.Sender = (*sqs.Client)(nil)

func TestSendsToQueue(t *testing.T) {
	q := &queue{}
	g := sqsgath.New(context.Background(), q, "run-1", "https://sqs.eu-central-1.amazonaws.com/1/res")
	g.InternalError("no rows")

	require.Len(t, q.inputs, 1)
	in := q.inputs[0]
	assert.Equal(t, "https://sqs.eu-central-1.amazonaws.com/1/res", aws.ToString(in.QueueUrl))
	assert.Nil(t, in.MessageGroupId)

	var fin api.FinishSearch
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &fin))
	assert.Equal(t, api.FinishSearchMsg, fin.MsgType)
	assert.Equal(t, "no rows", *fin.ErrorMessage)
}

func TestFifoQueueGroupsByRun(t *testing.T) {
	q := &queue{}
	sqsgath.New(context.Background(), q, "run-7", "https://sqs/1/res.fifo").FinishNoError()

	require.Len(t, q.inputs, 1)
	assert.Equal(t, "run-7", aws.ToString(q.inputs[0].MessageGroupId))
}
