package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/beast-reader/internal/logger"
	"github.com/yourusername/beast-reader/internal/metrics"
	"github.com/yourusername/beast-reader/internal/models"
)

// CacheKey identifies an image by the SHA-256 of its encoded payload
func CacheKey(img Image) string {
	sum := sha256.Sum256([]byte(img.Data))
	return hex.EncodeToString(sum[:])
}

// ResultCache keeps recent interpretations in memory
type ResultCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewResultCache creates a cache with the given TTL and size bound
func NewResultCache(ttl time.Duration, maxSize int) *ResultCache {
	return &ResultCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get returns a copy of the cached results for key
func (rc *ResultCache) Get(key string) ([]models.OCRResult, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if v, found := rc.cache.Get(key); found {
		if results, ok := v.([]models.OCRResult); ok {
			rc.hitCount++
			rc.updateMetrics()
			return cloneResults(results), true
		}
	}
	rc.missCount++
	rc.updateMetrics()
	return nil, false
}

// Set stores results for key. When full, expired entries are purged and
// the new entry is dropped if that did not free a slot.
func (rc *ResultCache) Set(key string, results []models.OCRResult) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	if rc.maxSize > 0 && rc.cache.ItemCount() >= rc.maxSize {
		rc.cache.DeleteExpired()
		if rc.cache.ItemCount() >= rc.maxSize {
			return
		}
	}
	rc.cache.Set(key, cloneResults(results), rc.ttl)
}

// Clear flushes the entire cache
func (rc *ResultCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.cache.Flush()
	rc.hitCount = 0
	rc.missCount = 0
}

// Stats returns cache statistics
func (rc *ResultCache) Stats() (hits, misses uint64, ratio float64) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.statsLocked()
}

func (rc *ResultCache) statsLocked() (hits, misses uint64, ratio float64) {
	hits, misses = rc.hitCount, rc.missCount
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (rc *ResultCache) updateMetrics() {
	_, _, ratio := rc.statsLocked()
	metrics.UpdateOCRCacheHitRatio(ratio)
}

// ItemCount returns the number of items in cache
func (rc *ResultCache) ItemCount() int {
	return rc.cache.ItemCount()
}

func cloneResults(in []models.OCRResult) []models.OCRResult {
	out := make([]models.OCRResult, len(in))
	for i, r := range in {
		out[i] = models.OCRResult{
			BetNumber:      r.BetNumber,
			StraightAmount: models.CloneAmount(r.StraightAmount),
			BoxAmount:      models.CloneAmount(r.BoxAmount),
			ComboAmount:    models.CloneAmount(r.ComboAmount),
		}
	}
	return out
}

// CachedInterpreter answers repeated uploads of the same image from memory
type CachedInterpreter struct {
	next   Interpreter
	cache  *ResultCache
	logger *logger.OCRLogger
}

// NewCachedInterpreter wraps next with a result cache
func NewCachedInterpreter(next Interpreter, rc *ResultCache, log *logrus.Logger) *CachedInterpreter {
	return &CachedInterpreter{next: next, cache: rc, logger: logger.NewOCRLogger(log)}
}

// Interpret returns cached results or delegates. Failures are never cached.
func (c *CachedInterpreter) Interpret(ctx context.Context, img Image) ([]models.OCRResult, error) {
	key := CacheKey(img)
	if results, ok := c.cache.Get(key); ok {
		c.logger.WithField("cache_key", key[:12]).Debug("Cache hit for ticket image")
		c.logger.LogInterpretation("cache", img.Size(), len(results), true, 0)
		return results, nil
	}

	results, err := c.next.Interpret(ctx, img)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, results)
	return results, nil
}
