package sqsgath

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sqsSender struct {
	ctx       context.Context
	sqsClient Sender
	queueUrl  string
	runUuid   string
}

func (s *sqsSender) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Error("failed to marshal message", "error", err)
		return
	}

	_, err = s.sqsClient.SendMessage(s.ctx, &sqs.SendMessageInput{
		QueueUrl:       aws.String(s.queueUrl),
		MessageBody:    aws.String(string(b)),
		MessageGroupId: groupId(s.queueUrl, s.runUuid),
	})
	if err != nil {
		slog.Error("failed to send message", "queue", s.queueUrl, "error", err)
	}
}

// FIFO queues require a message group; one group per run keeps its
// messages ordered.
func groupId(queueUrl string, runUuid string) *string {
	if !strings.HasSuffix(queueUrl, ".fifo") {
		return nil
	}
	return aws.String(runUuid)
}
