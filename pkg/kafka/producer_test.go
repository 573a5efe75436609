package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	topic    string
	messages []kafkago.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func newFakeProducer() (*Producer, map[string]*fakeWriter) {
	created := map[string]*fakeWriter{}
	p := NewProducerWithFactory(func(topic string) MessageWriter {
		w := &fakeWriter{topic: topic}
		created[topic] = w
		return w
	})
	return p, created
}

func TestProducer_Publish(t *testing.T) {
	p, writers := newFakeProducer()

	err := p.Publish(context.Background(), "loan-decisions", Message{
		Key:   []byte("app-1"),
		Value: []byte(`{"event_type":"x"}`),
		Headers: map[string]string{
			"event_type":   "loan_decision.application.submitted",
			"content-type": "application/json",
		},
	})
	require.NoError(t, err)

	w := writers["loan-decisions"]
	require.NotNil(t, w)
	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "app-1", string(msg.Key))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "content-type", msg.Headers[0].Key)
	assert.Equal(t, "event_type", msg.Headers[1].Key)
}

func TestProducer_ReusesWriterPerTopic(t *testing.T) {
	p, writers := newFakeProducer()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, "topic-a", Message{Value: []byte("1")}))
	require.NoError(t, p.Publish(ctx, "topic-a", Message{Value: []byte("2")}))
	require.NoError(t, p.Publish(ctx, "topic-b", Message{Value: []byte("3")}))

	assert.Len(t, writers, 2)
	assert.Len(t, writers["topic-a"].messages, 2)
}

func TestProducer_NoMessagesIsNoop(t *testing.T) {
	p, writers := newFakeProducer()
	require.NoError(t, p.Publish(context.Background(), "topic-a"))
	assert.Empty(t, writers)
}

func TestProducer_WrapsWriteError(t *testing.T) {
	boom := errors.New("leader not available")
	p := NewProducerWithFactory(func(string) MessageWriter { return &fakeWriter{writeErr: boom} })

	err := p.Publish(context.Background(), "topic-a", Message{Value: []byte("1")})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "topic-a")
}

func TestProducer_Close(t *testing.T) {
	p, writers := newFakeProducer()
	require.NoError(t, p.Publish(context.Background(), "topic-a", Message{Value: []byte("1")}))

	require.NoError(t, p.Close())
	assert.True(t, writers["topic-a"].closed)
	assert.Empty(t, p.writers)
}

func TestNewProducer(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "plain brokers", cfg: Config{Brokers: []string{"localhost:9092"}}},
		{name: "tls", cfg: Config{Brokers: []string{"kafka:9093"}, TLS: true}},
		{name: "scram", cfg: Config{Brokers: []string{"kafka:9093"}, SASLEnabled: true, SASLMechanism: "SCRAM-SHA-512", SASLUsername: "u", SASLPassword: "p"}},
		{name: "unknown mechanism", cfg: Config{SASLEnabled: true, SASLMechanism: "GSSAPI"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			w, ok := p.getOrCreateWriter("t").(*kafkago.Writer)
			require.True(t, ok)
			assert.Equal(t, "t", w.Topic)
			assert.Equal(t, tt.cfg.TLS || tt.cfg.SASLEnabled, w.Transport != nil)
		})
	}
}
