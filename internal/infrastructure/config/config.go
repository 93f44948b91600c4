// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"time"
	_ "time/tzdata" // zone database for minimal images

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/service"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/kafka"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/observability"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/postgres"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type DatabaseConfig struct {
	// URL overrides the discrete fields when set.
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST"      envDefault:"localhost"`
	Port     int    `env:"DB_PORT"      envDefault:"5432"`
	User     string `env:"DB_USER"      envDefault:"simulacao"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"      envDefault:"simulacao"`
	SSLMode  string `env:"DB_SSLMODE"   envDefault:"require"`
	MaxConns int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	// LogQueries traces every statement at debug level.
	LogQueries bool `env:"DB_LOG_QUERIES"`
	// CatalogURL points the product catalog at a separate database. Empty
	// means the catalog lives alongside the simulations.
	CatalogURL string `env:"CATALOG_DATABASE_URL"`
}

type RedisConfig struct {
	// Addr enables the catalog cache when set.
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB"        envDefault:"0"`
	CacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"5m"`
}

type KafkaConfig struct {
	// Brokers enables event publishing when non-empty.
	Brokers       []string      `env:"KAFKA_BROKERS"        envSeparator:","`
	Topic         string        `env:"KAFKA_TOPIC"          envDefault:"simulacoes"`
	ClientID      string        `env:"KAFKA_CLIENT_ID"      envDefault:"simulacao-credito"`
	Compression   string        `env:"KAFKA_COMPRESSION"    envDefault:"snappy"`
	TLS           bool          `env:"KAFKA_TLS"`
	CAFile        string        `env:"KAFKA_CA_FILE"`
	SASLEnabled   bool          `env:"KAFKA_SASL_ENABLED"`
	SASLMechanism string        `env:"KAFKA_SASL_MECHANISM" envDefault:"PLAIN"`
	SASLUsername  string        `env:"KAFKA_SASL_USERNAME"`
	SASLPassword  string        `env:"KAFKA_SASL_PASSWORD"`
	WriteTimeout  time.Duration `env:"KAFKA_WRITE_TIMEOUT"  envDefault:"5s"`
}

type LimitsConfig struct {
	MaxValue decimal.Decimal `env:"LIMIT_MAX_VALUE" envDefault:"10000000.00"`
	MaxTerm  int             `env:"LIMIT_MAX_TERM"  envDefault:"420"`
}

type TimeoutConfig struct {
	Catalog     time.Duration `env:"CATALOG_TIMEOUT"     envDefault:"2s"`
	Persistence time.Duration `env:"PERSISTENCE_TIMEOUT" envDefault:"5s"`
	Query       time.Duration `env:"QUERY_TIMEOUT"       envDefault:"5s"`
	Publish     time.Duration `env:"PUBLISH_TIMEOUT"     envDefault:"5s"`
	Shutdown    time.Duration `env:"SHUTDOWN_TIMEOUT"    envDefault:"15s"`
}

// JWTConfig describes how catalog callers' tokens are verified. Tokens are
// issued by an external identity provider.
type JWTConfig struct {
	Secret        string        `env:"JWT_SECRET"`
	PublicKeyFile string        `env:"JWT_PUBLIC_KEY_FILE"`
	Issuer        string        `env:"JWT_ISSUER"   envDefault:"simulacao-credito"`
	Audience      string        `env:"JWT_AUDIENCE"`
	Leeway        time.Duration `env:"JWT_LEEWAY"   envDefault:"30s"`
}

type TelemetryConfig struct {
	LogLevel     string  `env:"LOG_LEVEL"          envDefault:"info"`
	LogFormat    string  `env:"LOG_FORMAT"         envDefault:"json"`
	OTLPEndpoint string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	SampleRatio  float64 `env:"OTEL_TRACES_SAMPLE_RATIO"    envDefault:"1.0"`
}

type Config struct {
	ServiceName   string `env:"SERVICE_NAME"   envDefault:"simulacao-credito"`
	HTTPPort      int    `env:"HTTP_PORT"      envDefault:"8080"`
	GRPCPort      int    `env:"GRPC_PORT"      envDefault:"9090"`
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	TimeZone      string `env:"TIME_ZONE"      envDefault:"America/Sao_Paulo"`
	// NotifierBuffer is the number of events queued for publishing before new
	// ones are dropped.
	NotifierBuffer int    `env:"NOTIFIER_BUFFER"   envDefault:"256"`
	TLSCertFile    string `env:"GRPC_TLS_CERT_FILE"`
	TLSKeyFile     string `env:"GRPC_TLS_KEY_FILE"`
	GRPCReflection bool   `env:"GRPC_REFLECTION"`
	// TLSClientCAFile turns on mutual TLS for gRPC.
	TLSClientCAFile string `env:"GRPC_TLS_CLIENT_CA_FILE"`
	// RateLimitRPS caps /api/v1 requests per second per client. Zero disables it.
	RateLimitRPS int `env:"RATE_LIMIT_RPS" envDefault:"0"`
	// TrustedProxies lists the addresses or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	DB        DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Limits    LimitsConfig
	Timeouts  TimeoutConfig
	JWT       JWTConfig
	Telemetry TelemetryConfig
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StoragePostgres:
		if c.DB.URL == "" && c.DB.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD or DATABASE_URL is required for the postgres driver"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if !c.Limits.MaxValue.IsPositive() {
		errs = append(errs, errors.New("LIMIT_MAX_VALUE must be positive"))
	}
	if c.Limits.MaxTerm <= 0 {
		errs = append(errs, errors.New("LIMIT_MAX_TERM must be positive"))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS must not be negative"))
	}
	for _, proxy := range c.TrustedProxies {
		if _, err := netip.ParsePrefix(proxy); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(proxy); err != nil {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES: %q is neither an address nor a CIDR", proxy))
		}
	}
	if c.NotifierBuffer <= 0 {
		errs = append(errs, errors.New("NOTIFIER_BUFFER must be positive"))
	}
	if c.JWT.Secret == "" && c.JWT.PublicKeyFile == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY_FILE is required"))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}
	if c.TLSClientCAFile != "" && c.TLSCertFile == "" {
		errs = append(errs, errors.New("GRPC_TLS_CLIENT_CA_FILE requires GRPC_TLS_CERT_FILE"))
	}
	if c.Kafka.CAFile != "" && !c.Kafka.TLS {
		errs = append(errs, errors.New("KAFKA_CA_FILE requires KAFKA_TLS"))
	}
	if _, err := observability.ParseLevel(c.Telemetry.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("TIME_ZONE: %w", err))
	}

	return errors.Join(errs...)
}

// Location returns the zone simulations are stamped and aggregated in.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Policy returns the request limits with the configured ceilings applied.
func (c Config) Policy() service.RequestPolicy {
	p := service.DefaultRequestPolicy()
	p.MaxValue = c.Limits.MaxValue
	p.MaxTerm = c.Limits.MaxTerm
	return p
}

// Postgres returns the connection settings for the simulation store.
func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		URL:      c.DB.URL,
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Name,
		SSLMode:  c.DB.SSLMode,
		MaxConns: c.DB.MaxConns,
	}
}

// KafkaProducer returns the producer settings.
func (c Config) KafkaProducer() kafka.Config {
	return kafka.Config{
		ClientID:      c.Kafka.ClientID,
		Brokers:       c.Kafka.Brokers,
		Topic:         c.Kafka.Topic,
		Compression:   c.Kafka.Compression,
		WriteTimeout:  c.Kafka.WriteTimeout,
		TLS:           c.Kafka.TLS,
		CAFile:        c.Kafka.CAFile,
		SASLEnabled:   c.Kafka.SASLEnabled,
		SASLMechanism: c.Kafka.SASLMechanism,
		SASLUsername:  c.Kafka.SASLUsername,
		SASLPassword:  c.Kafka.SASLPassword,
	}
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
