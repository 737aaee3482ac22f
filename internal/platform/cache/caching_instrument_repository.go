// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_backend/internal/feature/instruments/domain/entity"
	"portfolio_backend/internal/feature/instruments/usecase"
)

// CachingInstrumentRepository decorates an InstrumentRepository with Redis caching
// for the read API (FindBySymbol, Search, CountActiveByMarket).
//
// Search and stats keys carry a generation number stored in Redis. Every write
// bumps the generation, so results cached before a sync are never served after it.
// FindByKeys and Count always go to the database.
type CachingInstrumentRepository struct {
	inner     usecase.InstrumentRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.InstrumentRepository = (*CachingInstrumentRepository)(nil)

// NewCachingInstrumentRepository decorates an InstrumentRepository with Redis caching.
// If ttl is 0, it defaults to 10 minutes. If namespace is empty, it uses "instruments".
func NewCachingInstrumentRepository(rdb *redis.Client, ttl time.Duration, inner usecase.InstrumentRepository, namespace string) *CachingInstrumentRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if namespace == "" {
		namespace = "instruments"
	}
	return &CachingInstrumentRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Upsert writes through and invalidates the row key and every cached list.
func (c *CachingInstrumentRepository) Upsert(ctx context.Context, inst entity.Instrument, columns []string) error {
	if err := c.inner.Upsert(ctx, inst, columns); err != nil {
		return err
	}
	if c.rdb == nil {
		return nil
	}
	// Best effort: don't fail the write if cache invalidation fails
	_ = c.rdb.Del(ctx, c.rowKey(inst.Symbol, inst.Market)).Err()
	_ = c.rdb.Incr(ctx, c.genKey()).Err()
	return nil
}

// FindBySymbol checks the row cache first. Not-found results are not cached.
func (c *CachingInstrumentRepository) FindBySymbol(ctx context.Context, symbol, market string) (*entity.Instrument, error) {
	if c.rdb == nil {
		return c.inner.FindBySymbol(ctx, symbol, market)
	}

	key := c.rowKey(symbol, market)
	var cached entity.Instrument
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	inst, err := c.inner.FindBySymbol(ctx, symbol, market)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, inst)
	return inst, nil
}

// FindByKeys is not cached: price resolution must see the latest sync.
func (c *CachingInstrumentRepository) FindByKeys(ctx context.Context, keys []entity.InstrumentKey) ([]entity.Instrument, error) {
	return c.inner.FindByKeys(ctx, keys)
}

// Search retrieves results from the current generation's cache, falling back to the database.
func (c *CachingInstrumentRepository) Search(ctx context.Context, q entity.SearchQuery) ([]entity.Instrument, error) {
	if c.rdb == nil {
		return c.inner.Search(ctx, q)
	}
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.Search(ctx, q)
	}

	key := fmt.Sprintf("%s:search:%d:%s:%s:%d", c.namespace, gen, safe(q.Market), safe(q.Keyword), q.Limit)
	var cached []entity.Instrument
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// Count is not cached.
func (c *CachingInstrumentRepository) Count(ctx context.Context) (int64, error) {
	return c.inner.Count(ctx)
}

// CountActiveByMarket caches the per-market counts for the current generation.
func (c *CachingInstrumentRepository) CountActiveByMarket(ctx context.Context) ([]entity.MarketCount, error) {
	if c.rdb == nil {
		return c.inner.CountActiveByMarket(ctx)
	}
	gen, ok := c.generation(ctx)
	if !ok {
		return c.inner.CountActiveByMarket(ctx)
	}

	key := fmt.Sprintf("%s:stats:%d", c.namespace, gen)
	var cached []entity.MarketCount
	if c.load(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.inner.CountActiveByMarket(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// DeleteAll deletes every row and drops the whole namespace.
func (c *CachingInstrumentRepository) DeleteAll(ctx context.Context) (int64, error) {
	n, err := c.inner.DeleteAll(ctx)
	if err != nil {
		return n, err
	}
	if c.rdb != nil {
		_ = c.deleteByPattern(ctx, c.namespace+":*")
	}
	return n, nil
}

// generation returns the current list generation. A missing key is generation 0.
func (c *CachingInstrumentRepository) generation(ctx context.Context) (int64, bool) {
	gen, err := c.rdb.Get(ctx, c.genKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		return 0, false
	}
	return gen, true
}

// load reads key into out. Corrupted entries are deleted.
func (c *CachingInstrumentRepository) load(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key (best effort).
func (c *CachingInstrumentRepository) store(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingInstrumentRepository) genKey() string {
	return c.namespace + ":gen"
}

func (c *CachingInstrumentRepository) rowKey(symbol, market string) string {
	return fmt.Sprintf("%s:row:%s:%s", c.namespace, safe(market), safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingInstrumentRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
