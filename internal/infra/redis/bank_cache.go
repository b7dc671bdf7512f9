package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/question"
)

// BankCache caches question pools in Redis and falls back to a loader on a miss.
// Pools are stored per language as JSON fields of one hash:
// HSET wisdom:bank:{lang} {category} [{"question":...,"answer":...}, ...]
type BankCache struct {
	client *redis.Client
	loader question.PoolLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBankCache(client *redis.Client, loader question.PoolLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *BankCache) LoadPool(ctx context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	key := c.key(lang)
	if items, ok := c.cached(ctx, key, cat); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do(key+":"+string(cat), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if items, ok := c.cached(ctx, key, cat); ok {
			return items, nil
		}

		items, err := c.loader.LoadPool(ctx, lang, cat)
		if err != nil {
			return nil, err
		}

		raw, err := json.Marshal(items)
		if err != nil {
			return items, nil
		}
		pipe := c.client.Pipeline()
		pipe.HSet(ctx, key, string(cat), raw)
		remaining := pipe.TTL(ctx, key)
		_, _ = pipe.Exec(ctx)
		// Only the first fill of a language sets the hash expiry.
		if ttl := c.ttlWithJitter(); ttl > 0 && remaining.Val() < 0 {
			c.client.Expire(ctx, key, ttl)
		}

		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankItem), nil
}

// Invalidate drops the cached pools of one language.
func (c *BankCache) Invalidate(ctx context.Context, lang domain.Language) error {
	return c.client.Del(ctx, c.key(lang)).Err()
}

func (c *BankCache) cached(ctx context.Context, key string, cat domain.Category) ([]domain.BankItem, bool) {
	raw, err := c.client.HGet(ctx, key, string(cat)).Bytes()
	if err != nil || len(raw) == 0 {
		return nil, false
	}
	var items []domain.BankItem
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	return items, true
}

func (c *BankCache) key(lang domain.Language) string {
	return "wisdom:bank:" + string(lang)
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
