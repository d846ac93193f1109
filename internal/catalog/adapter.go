package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/metrics"
)

// Adapter is the attribute catalog adapter: it assembles the render input
// for a product, caching the available-variation set in Redis. The cache is
// read-through; stale stock flags within the TTL are acceptable because
// stock status is a render-time snapshot anyway.
type Adapter struct {
	store  *Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewAdapter(store *Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *Adapter {
	return &Adapter{
		store:  store,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "catalog.adapter"}),
	}
}

func variationsKey(productID int64) string {
	return fmt.Sprintf("variantbox:variations:%d", productID)
}

// Snapshot loads the product, its attributes, and its available variations.
func (a *Adapter) Snapshot(ctx context.Context, productID int64) (*Snapshot, error) {
	product, err := a.store.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	attrs, err := a.store.ListAttributes(ctx, productID)
	if err != nil {
		return nil, err
	}

	variations, err := a.availableVariations(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Product:    *product,
		Attributes: attrs,
		Variations: variations,
	}, nil
}

func (a *Adapter) availableVariations(ctx context.Context, productID int64) ([]Variation, error) {
	key := variationsKey(productID)

	if a.redis != nil {
		if raw, err := a.redis.Get(ctx, key).Result(); err == nil {
			var cached []Variation
			unmarshalErr := json.Unmarshal([]byte(raw), &cached)
			if unmarshalErr == nil {
				metrics.CatalogCacheHits.WithLabelValues("hit").Inc()
				return cached, nil
			}
			a.logger.Warn("dropping malformed cache entry", map[string]interface{}{
				"key":   key,
				"error": unmarshalErr.Error(),
			})
			_ = a.redis.Del(ctx, key).Err()
		}
		metrics.CatalogCacheHits.WithLabelValues("miss").Inc()
	}

	variations, err := a.store.ListAvailableVariations(ctx, productID)
	if err != nil {
		return nil, err
	}

	if a.redis != nil {
		if raw, err := json.Marshal(variations); err == nil {
			if err := a.redis.Set(ctx, key, raw, a.ttl).Err(); err != nil {
				a.logger.Warn("cache write failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}

	return variations, nil
}

// Invalidate drops a product's cached variation snapshot, e.g. after a
// stock change.
func (a *Adapter) Invalidate(ctx context.Context, productID int64) error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Del(ctx, variationsKey(productID)).Err()
}
