// Package cache bounds catalog staleness with a Redis-backed read-through cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/model"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/domain/port"
)

// DefaultKey is where the catalog snapshot is stored.
const DefaultKey = "simulacao:catalog:v1"

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CatalogCache decorates a port.ProductCatalog. A snapshot lives for at most
// ttl, so every eligibility decision is made against a catalog no older than
// that. Redis failures fall through to the source.
type CatalogCache struct {
	source port.ProductCatalog
	client Client
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

// NewCatalogCache wires dependencies. A nil logger means slog.Default.
func NewCatalogCache(source port.ProductCatalog, client Client, ttl time.Duration, logger *slog.Logger) *CatalogCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogCache{source: source, client: client, key: DefaultKey, ttl: ttl, logger: logger}
}

// NewRedisClient builds a go-redis client.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type cachedProduct struct {
	Code       int              `json:"code"`
	Name       string           `json:"name"`
	AnnualRate decimal.Decimal  `json:"annual_rate"`
	MinTerm    int              `json:"min_term"`
	MaxTerm    *int             `json:"max_term,omitempty"`
	MinValue   decimal.Decimal  `json:"min_value"`
	MaxValue   *decimal.Decimal `json:"max_value,omitempty"`
}

// ListAll serves the cached snapshot or refreshes it from the source.
func (c *CatalogCache) ListAll(ctx context.Context) ([]model.Product, error) {
	if products, ok := c.load(ctx); ok {
		return products, nil
	}

	products, err := c.source.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, products)
	return products, nil
}

func (c *CatalogCache) load(ctx context.Context) ([]model.Product, bool) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "error", err)
		return nil, false
	}

	var cached []cachedProduct
	if err := json.Unmarshal(raw, &cached); err != nil {
		c.logger.WarnContext(ctx, "catalog cache entry unreadable", "error", err)
		return nil, false
	}

	products := make([]model.Product, len(cached))
	for i, p := range cached {
		products[i] = model.Product{
			Code:       p.Code,
			Name:       p.Name,
			AnnualRate: p.AnnualRate,
			MinTerm:    p.MinTerm,
			MaxTerm:    p.MaxTerm,
			MinValue:   p.MinValue,
			MaxValue:   p.MaxValue,
		}
	}
	return products, true
}

func (c *CatalogCache) store(ctx context.Context, products []model.Product) {
	cached := make([]cachedProduct, len(products))
	for i, p := range products {
		cached[i] = cachedProduct{
			Code:       p.Code,
			Name:       p.Name,
			AnnualRate: p.AnnualRate,
			MinTerm:    p.MinTerm,
			MaxTerm:    p.MaxTerm,
			MinValue:   p.MinValue,
			MaxValue:   p.MaxValue,
		}
	}

	raw, err := json.Marshal(cached)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache encode failed", "error", fmt.Errorf("marshal products: %w", err))
		return
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "error", err)
	}
}
