package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaContainer is a single-node KRaft broker.
type KafkaContainer struct {
	Brokers []string
}

// NewKafkaContainer starts a broker and returns its bootstrap addresses.
func NewKafkaContainer(ctx context.Context, t *testing.T) *KafkaContainer {
	t.Helper()
	skipShort(t)

	ctr, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("loan-decision-test"),
	)
	require.NoError(t, err, "start kafka container")
	terminateOnCleanup(t, "kafka", ctr)

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "kafka brokers")

	return &KafkaContainer{Brokers: brokers}
}

// ReadMessages reads up to n messages from the start of partition 0 of topic
// and returns whatever arrived before timeout.
func (kc *KafkaContainer) ReadMessages(t *testing.T, topic string, n int, timeout time.Duration) []kafkago.Message {
	t.Helper()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     kc.Brokers,
		Topic:       topic,
		StartOffset: kafkago.FirstOffset,
		MaxWait:     200 * time.Millisecond,
	})
	defer reader.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := make([]kafkago.Message, 0, n)
	for len(out) < n {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				t.Logf("kafka read stopped: %v", err)
			}
			break
		}
		out = append(out, msg)
	}
	return out
}
