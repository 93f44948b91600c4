package kafka

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/tlsutil"
)

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(Config{
		Brokers:      []string{"localhost:9092", "localhost:9093"},
		Topic:        "simulacoes",
		WriteTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Topic() != "simulacoes" {
		t.Errorf("expected topic simulacoes, got %s", p.Topic())
	}
	if p.writer.WriteTimeout != 2*time.Second {
		t.Errorf("expected write timeout 2s, got %v", p.writer.WriteTimeout)
	}
	if p.writer.RequiredAcks != kafkago.RequireAll {
		t.Errorf("expected acks from all replicas, got %v", p.writer.RequiredAcks)
	}
	if p.transport != nil {
		t.Error("expected default transport when neither TLS nor SASL is enabled")
	}
}

func TestNewProducer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "no brokers", cfg: Config{Topic: "simulacoes"}},
		{name: "no topic", cfg: Config{Brokers: []string{"kafka:9092"}}},
		{name: "unknown compression", cfg: Config{Brokers: []string{"kafka:9092"}, Topic: "t", Compression: "brotli"}},
		{name: "unreadable CA", cfg: Config{Brokers: []string{"kafka:9092"}, Topic: "t", TLS: true, CAFile: "/does/not/exist/ca.pem"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewProducer(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseCompression(t *testing.T) {
	tests := map[string]kafkago.Compression{
		"":       0,
		"none":   0,
		"gzip":   kafkago.Gzip,
		"SNAPPY": kafkago.Snappy,
		"lz4":    kafkago.Lz4,
		"zstd":   kafkago.Zstd,
	}
	for name, want := range tests {
		got, err := parseCompression(name)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", name, err)
		}
		if got != want {
			t.Errorf("%q: expected %v, got %v", name, want, got)
		}
	}
}

func TestNewProducerWithSASL(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "plain", mechanism: "PLAIN"},
		{name: "empty defaults to plain", mechanism: ""},
		{name: "scram sha 256", mechanism: "SCRAM-SHA-256"},
		{name: "scram sha 512", mechanism: "SCRAM-SHA-512"},
		{name: "unknown mechanism", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProducer(Config{
				Brokers:       []string{"kafka:9092"},
				Topic:         "simulacoes",
				SASLEnabled:   true,
				SASLMechanism: tt.mechanism,
				SASLUsername:  "svc",
				SASLPassword:  "secret",
				TLS:           true,
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unsupported mechanism")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.transport == nil || p.transport.SASL == nil {
				t.Fatal("expected SASL transport to be configured")
			}
			if p.transport.TLS == nil {
				t.Error("expected TLS config on transport")
			}
		})
	}
}

func TestNewProducerWithCAFile(t *testing.T) {
	files, err := tlsutil.WriteDevPKI(t.TempDir(), []string{"kafka"})
	if err != nil {
		t.Fatalf("write dev pki: %v", err)
	}
	p, err := NewProducer(Config{Brokers: []string{"kafka:9093"}, Topic: "simulacoes", TLS: true, CAFile: files.CA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.transport == nil || p.transport.TLS == nil || p.transport.TLS.RootCAs == nil {
		t.Fatal("expected TLS transport trusting the configured CA")
	}
}

func TestPublish_NoMessages(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:1"}, Topic: "simulacoes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Publish(context.Background()); err != nil {
		t.Fatalf("empty publish should not reach the broker: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error on close: %v", err)
	}
}
