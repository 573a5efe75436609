package kafka

import (
	"crypto/tls"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

// Config holds Kafka connection parameters.
type Config struct {
	// SASL configuration for authentication.
	SASLMechanism string // "PLAIN" or "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string

	Brokers []string

	// TLS enables TLS for Kafka connections.
	TLS         bool
	SASLEnabled bool
}

// transport builds the kafka-go transport for the configured TLS and SASL
// settings. It returns nil when neither is enabled so the writer falls back
// to kafka-go's default transport.
func (c Config) transport() (*kafkago.Transport, error) {
	if !c.TLS && !c.SASLEnabled {
		return nil, nil
	}
	t := &kafkago.Transport{}
	if c.TLS {
		t.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if c.SASLEnabled {
		m, err := c.saslMechanism()
		if err != nil {
			return nil, err
		}
		t.SASL = m
	}
	return t, nil
}

func (c Config) saslMechanism() (sasl.Mechanism, error) {
	switch c.SASLMechanism {
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, c.SASLUsername, c.SASLPassword)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, c.SASLUsername, c.SASLPassword)
	case "PLAIN", "":
		return plain.Mechanism{Username: c.SASLUsername, Password: c.SASLPassword}, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", c.SASLMechanism)
	}
}
