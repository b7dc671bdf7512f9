package question

import (
	"math/rand"
	"sync"
	"time"

	"wisdom-spin/internal/domain"
)

// CategoryResolver turns the random sentinel into a concrete category.
type CategoryResolver struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	pool []domain.Category
}

// NewCategoryResolver draws from domain.RandomPool. A nil rnd is seeded from the clock.
func NewCategoryResolver(rnd *rand.Rand) *CategoryResolver {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CategoryResolver{rnd: rnd, pool: domain.RandomPool}
}

// Resolve returns selected unchanged unless it is the random sentinel.
func (r *CategoryResolver) Resolve(selected domain.Category) domain.Category {
	if selected != domain.CategoryRandom && selected != "" {
		return selected
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pool[r.rnd.Intn(len(r.pool))]
}
