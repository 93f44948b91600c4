package kafka

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/tlsutil"
)

// Message is one record to publish. Headers are written in key order.
type Message struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// Producer writes to one topic. Messages with the same key land on the same
// partition.
type Producer struct {
	writer    *kafkago.Writer
	transport *kafkago.Transport
}

// NewProducer validates cfg and builds the writer. No connection is made
// until the first Publish.
func NewProducer(cfg Config) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, errors.New("kafka: topic is required")
	}
	codec, err := parseCompression(cfg.Compression)
	if err != nil {
		return nil, err
	}

	p := &Producer{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafkago.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafkago.RequireAll,
			Compression:  codec,
		},
	}

	if cfg.TLS || cfg.SASLEnabled || cfg.ClientID != "" {
		transport := &kafkago.Transport{ClientID: cfg.ClientID}
		if cfg.TLS {
			tlsCfg, err := tlsutil.ClientConfig(cfg.CAFile, "", "")
			if err != nil {
				return nil, fmt.Errorf("kafka: %w", err)
			}
			transport.TLS = tlsCfg
		}
		if cfg.SASLEnabled {
			mechanism, err := resolveSASL(cfg)
			if err != nil {
				return nil, err
			}
			transport.SASL = mechanism
		}
		p.transport = transport
		p.writer.Transport = transport
	}

	return p, nil
}

func parseCompression(name string) (kafkago.Compression, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return 0, nil
	case "gzip":
		return kafkago.Gzip, nil
	case "snappy":
		return kafkago.Snappy, nil
	case "lz4":
		return kafkago.Lz4, nil
	case "zstd":
		return kafkago.Zstd, nil
	default:
		return 0, fmt.Errorf("kafka: unsupported compression %q", name)
	}
}

func resolveSASL(cfg Config) (sasl.Mechanism, error) {
	switch cfg.SASLMechanism {
	case "SCRAM-SHA-256", "SCRAM-SHA-512":
		algo := scram.SHA256
		if cfg.SASLMechanism == "SCRAM-SHA-512" {
			algo = scram.SHA512
		}
		m, err := scram.Mechanism(algo, cfg.SASLUsername, cfg.SASLPassword)
		if err != nil {
			return nil, fmt.Errorf("kafka: %s mechanism: %w", strings.ToLower(cfg.SASLMechanism), err)
		}
		return m, nil
	case "PLAIN", "":
		return plain.Mechanism{Username: cfg.SASLUsername, Password: cfg.SASLPassword}, nil
	default:
		return nil, fmt.Errorf("kafka: unsupported SASL mechanism %q", cfg.SASLMechanism)
	}
}

// Topic is the destination of every message.
func (p *Producer) Topic() string { return p.writer.Topic }

// Publish writes messages as one batch and waits for all in-sync replicas.
func (p *Producer) Publish(ctx context.Context, messages ...Message) error {
	if len(messages) == 0 {
		return nil
	}
	records := make([]kafkago.Message, len(messages))
	for i, msg := range messages {
		records[i] = kafkago.Message{Key: msg.Key, Value: msg.Value}
		for _, k := range slices.Sorted(maps.Keys(msg.Headers)) {
			records[i].Headers = append(records[i].Headers, kafkago.Header{Key: k, Value: []byte(msg.Headers[k])})
		}
	}

	if err := p.writer.WriteMessages(ctx, records...); err != nil {
		return fmt.Errorf("kafka publish to %s: %w", p.writer.Topic, err)
	}
	return nil
}

// Stats returns writer counters accumulated since the previous call.
func (p *Producer) Stats() kafkago.WriterStats {
	return p.writer.Stats()
}

// Close flushes pending batches.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("kafka close writer for %s: %w", p.writer.Topic, err)
	}
	return nil
}
