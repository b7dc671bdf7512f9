package question

import (
	"context"
	"log"

	"wisdom-spin/internal/domain"
)

// FallbackChain is the question source used by game sessions. It prefers the
// remote strategy when online and substitutes a local question on any
// remote failure, so Fetch never returns an error.
type FallbackChain struct {
	local      *LocalStrategy
	remote     Strategy
	online     Connectivity
	categories *CategoryResolver
}

// NewFallbackChain composes the strategies. remote may be nil, in which case
// every fetch is served from the local archive.
func NewFallbackChain(local *LocalStrategy, remote Strategy, online Connectivity, categories *CategoryResolver) *FallbackChain {
	if online == nil {
		online = StaticConnectivity(true)
	}
	if categories == nil {
		categories = NewCategoryResolver(nil)
	}
	return &FallbackChain{local: local, remote: remote, online: online, categories: categories}
}

func (c *FallbackChain) Fetch(ctx context.Context, req Request) (domain.QuestionData, error) {
	req.Category = c.categories.Resolve(req.Category)
	if !req.Language.Valid() {
		req.Language = domain.DefaultLanguage
	}
	item := c.local.Pick(ctx, req.Language, req.Category)

	if c.remote == nil || !c.online.Online(ctx) {
		return archived(item, req), nil
	}

	q, err := c.remote.Fetch(ctx, req)
	if err == nil && q.Question == "" {
		err = domain.ErrMalformedPayload
	}
	if err != nil {
		log.Printf("question service error: %v", err)
		return substituted(item, req), nil
	}
	if q.Answer == "" {
		q.Answer = item.Answer
	}
	q.Category = req.Category
	q.Difficulty = req.Difficulty
	return q, nil
}
