package question

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"wisdom-spin/internal/domain"
)

// Request describes the question a round needs.
type Request struct {
	Category   domain.Category
	Difficulty domain.Difficulty
	Language   domain.Language
	History    []string
}

// RecentHistory returns at most the last HistoryWindow entries.
func (r Request) RecentHistory() []string {
	if len(r.History) <= domain.HistoryWindow {
		return r.History
	}
	return r.History[len(r.History)-domain.HistoryWindow:]
}

// Strategy produces one question.
type Strategy interface {
	Fetch(ctx context.Context, req Request) (domain.QuestionData, error)
}

// LocalStrategy picks from the bundled bank. It never fails.
type LocalStrategy struct {
	loader PoolLoader
	mu     sync.Mutex
	rnd    *rand.Rand
}

// NewLocalStrategy uses loader for pools; a nil rnd is seeded from the clock.
func NewLocalStrategy(loader PoolLoader, rnd *rand.Rand) *LocalStrategy {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &LocalStrategy{loader: loader, rnd: rnd}
}

// Pick returns a uniformly random item from the resolved fallback pool.
func (s *LocalStrategy) Pick(ctx context.Context, lang domain.Language, cat domain.Category) domain.BankItem {
	pool := ResolvePool(ctx, s.loader, lang, cat)
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool[s.rnd.Intn(len(pool))]
}

// Fetch returns a local question with difficulty forced to medium.
func (s *LocalStrategy) Fetch(ctx context.Context, req Request) (domain.QuestionData, error) {
	return archived(s.Pick(ctx, req.Language, req.Category), req), nil
}

// archived tags a bank item served without a remote attempt.
func archived(item domain.BankItem, req Request) domain.QuestionData {
	explanation := item.Explanation
	if explanation == "" {
		explanation = Message(req.Language, msgLocalArchive)
	}
	return domain.QuestionData{
		Question:    item.Question,
		Answer:      item.Answer,
		Explanation: explanation,
		Category:    req.Category,
		Difficulty:  domain.DifficultyMedium,
		Origin:      domain.OriginLocal,
	}
}

// substituted is the local question used after a failed remote call.
func substituted(item domain.BankItem, req Request) domain.QuestionData {
	return domain.QuestionData{
		Question:    item.Question,
		Answer:      item.Answer,
		Explanation: Message(req.Language, msgRemoteFailed),
		Category:    req.Category,
		Difficulty:  domain.DifficultyMedium,
		Origin:      domain.OriginLocal,
	}
}
