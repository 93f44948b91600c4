package kafka

import "time"

// Config holds Kafka connection parameters for a single-topic producer.
type Config struct {
	ClientID string
	Brokers  []string
	Topic    string

	// Compression is one of none, gzip, snappy, lz4 or zstd. Empty means none.
	Compression string
	// WriteTimeout bounds a single batch write. Zero keeps the kafka-go default.
	WriteTimeout time.Duration

	// TLS enables TLS for Kafka connections. CAFile replaces the system
	// roots when set.
	TLS    bool
	CAFile string

	SASLEnabled   bool
	SASLMechanism string // "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"
	SASLUsername  string
	SASLPassword  string
}
