package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"wisdom-spin/internal/domain"
	"wisdom-spin/internal/question"
)

// BankCache caches question pools with TTL to avoid repeated DB hits. It is
// process-local: custom question edits show up once bank.ttl runs out.
type BankCache struct {
	loader question.PoolLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	items     []domain.BankItem
	expiresAt time.Time
}

func NewBankCache(loader question.PoolLoader, ttl time.Duration) *BankCache {
	return &BankCache{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

func (c *BankCache) LoadPool(ctx context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	key := string(lang) + ":" + string(cat)
	if items, ok := c.lookup(key); ok {
		return items, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if items, ok := c.lookup(key); ok {
			return items, nil
		}
		items, err := c.loader.LoadPool(ctx, lang, cat)
		if err != nil {
			return nil, err
		}

		expiresAt := c.clock().Add(c.ttlWithJitter())
		c.mu.Lock()
		c.cache[key] = cachedPool{items: items, expiresAt: expiresAt}
		c.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.BankItem), nil
}

func (c *BankCache) lookup(key string) ([]domain.BankItem, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(now) {
		return entry.items, true
	}
	return nil, false
}

func (c *BankCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
