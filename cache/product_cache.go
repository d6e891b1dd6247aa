package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/HamzaHashone/ecommerce-hijaab-collection/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 5 * time.Minute
)

// ProductCache caches catalog list responses. Every product write bumps a
// version key so stale pages are never read again; they simply expire.
// A nil redis client turns every method into a no-op miss.
type ProductCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewProductCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ProductCache{redis: client, ttl: ttl, logger: logger}
}

// Enabled reports whether a Redis client is configured.
func (pc *ProductCache) Enabled() bool {
	return pc != nil && pc.redis != nil
}

// GetList decodes a cached page into dest and reports whether it was found.
func (pc *ProductCache) GetList(ctx context.Context, params models.ProductListParams, dest interface{}) bool {
	if !pc.Enabled() {
		return false
	}

	version, err := pc.getCacheVersion(ctx)
	if err != nil {
		return false
	}

	cached, err := pc.redis.Get(ctx, listCacheKey(version, params)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		pc.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return false
	}
	return true
}

// SetListAsync stores a page without blocking the request.
func (pc *ProductCache) SetListAsync(params models.ProductListParams, value interface{}) {
	if !pc.Enabled() {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		pc.logger.Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		version, err := pc.getCacheVersion(bgCtx)
		if err != nil {
			return
		}
		if err := pc.redis.Set(bgCtx, listCacheKey(version, params), payload, pc.ttl).Err(); err != nil {
			pc.logger.Warn("Failed to cache product list", zap.Error(err))
		}
	}()
}

// Invalidate invalidates all product list caches by bumping the version
func (pc *ProductCache) Invalidate(ctx context.Context) error {
	if !pc.Enabled() {
		return nil
	}

	newVersion, err := pc.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	pc.logger.Debug("Product cache invalidated", zap.Int64("new_version", newVersion))
	return nil
}

func (pc *ProductCache) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := pc.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err == redis.Nil {
		// SetNX so two first readers agree on the initial version.
		if err := pc.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return pc.redis.Get(ctx, CacheVersionKey).Int64()
	}
	if err == nil {
		return 0, fmt.Errorf("invalid cache version %d", ver)
	}
	return 0, err
}

// listCacheKey hashes the JSON form of the params so free-text titles can
// never collide with the other fields.
func listCacheKey(version int64, p models.ProductListParams) string {
	raw, _ := json.Marshal(struct {
		Limit  int64  `json:"l"`
		Skip   int64  `json:"s"`
		Title  string `json:"t"`
		Sort   string `json:"o"`
		Filter string `json:"f"`
	}{p.Limit, p.Skip, p.Title, p.Sort, p.Filter})
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s%d:l:%s", ProductListCachePrefix, version, hex.EncodeToString(sum[:]))
}
