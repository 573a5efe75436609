package kafka

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// Message represents a Kafka message.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// MessageWriter is the part of *kafkago.Writer the producer depends on.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// WriterFactory creates the writer for one topic.
type WriterFactory func(topic string) MessageWriter

// Producer wraps kafka-go writers for publishing messages, one per topic.
type Producer struct {
	mu        sync.Mutex
	writers   map[string]MessageWriter
	newWriter WriterFactory
}

// NewProducer creates a new Producer with the given configuration.
func NewProducer(cfg Config) (*Producer, error) {
	transport, err := cfg.transport()
	if err != nil {
		return nil, err
	}
	brokers := cfg.Brokers
	return NewProducerWithFactory(func(topic string) MessageWriter {
		w := &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			BatchTimeout:           10 * time.Millisecond,
			RequiredAcks:           kafkago.RequireAll,
			AllowAutoTopicCreation: true,
		}
		if transport != nil {
			w.Transport = transport
		}
		return w
	}), nil
}

// NewProducerWithFactory creates a Producer whose writers come from factory.
func NewProducerWithFactory(factory WriterFactory) *Producer {
	return &Producer{
		writers:   make(map[string]MessageWriter),
		newWriter: factory,
	}
}

// Publish sends messages to the specified topic. Messages with the same key
// land on the same partition.
func (p *Producer) Publish(ctx context.Context, topic string, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	w := p.getOrCreateWriter(topic)

	kafkaMessages := make([]kafkago.Message, 0, len(messages))
	for _, msg := range messages {
		kafkaMessages = append(kafkaMessages, toKafkaMessage(msg))
	}

	if err := w.WriteMessages(ctx, kafkaMessages...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	return nil
}

// Close closes all writers.
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for topic, w := range p.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing writer for topic %s: %w", topic, err)
		}
	}
	p.writers = make(map[string]MessageWriter)
	return firstErr
}

// getOrCreateWriter lazily creates a writer for a topic.
func (p *Producer) getOrCreateWriter(topic string) MessageWriter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if w, ok := p.writers[topic]; ok {
		return w
	}
	w := p.newWriter(topic)
	p.writers[topic] = w
	return w
}

// toKafkaMessage converts headers in key order so the wire form is stable.
func toKafkaMessage(msg Message) kafkago.Message {
	km := kafkago.Message{Key: msg.Key, Value: msg.Value}
	keys := make([]string, 0, len(msg.Headers))
	for k := range msg.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		km.Headers = append(km.Headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
	}
	return km
}
