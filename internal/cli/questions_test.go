package cli

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"wisdom-spin/internal/config"
	"wisdom-spin/internal/domain"
	infraredis "wisdom-spin/internal/infra/redis"
)

// editableBank stands in for the Postgres bank while questions are added.
type editableBank struct {
	mu    sync.Mutex
	pools map[domain.Category][]domain.BankItem
}

func (b *editableBank) LoadPool(_ context.Context, _ domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pool := b.pools[cat]
	if len(pool) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return append([]domain.BankItem(nil), pool...), nil
}

func (b *editableBank) add(cat domain.Category, item domain.BankItem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pools[cat] = append(b.pools[cat], item)
}

func TestInvalidateBankCacheReloadsAddedQuestions(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	bank := &editableBank{pools: map[domain.Category][]domain.BankItem{
		domain.CategorySports: {{Question: "Q1", Answer: "A1"}},
	}}
	cache := infraredis.NewBankCache(client, bank, time.Hour)
	if pool, err := cache.LoadPool(ctx, domain.LanguageEnglish, domain.CategorySports); err != nil || len(pool) != 1 {
		t.Fatalf("initial load: %v %+v", err, pool)
	}

	bank.add(domain.CategorySports, domain.BankItem{Question: "Q2", Answer: "A2"})
	if pool, _ := cache.LoadPool(ctx, domain.LanguageEnglish, domain.CategorySports); len(pool) != 1 {
		t.Fatalf("expected the cached pool before invalidation, got %+v", pool)
	}

	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()
	if err := invalidateBankCache(ctx, cfg, domain.LanguageEnglish); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("wisdom:bank:en") {
		t.Fatalf("expected english pools dropped")
	}
	pool, err := cache.LoadPool(ctx, domain.LanguageEnglish, domain.CategorySports)
	if err != nil || len(pool) != 2 || pool[1].Question != "Q2" {
		t.Fatalf("expected reloaded pool with the new question, got %v %+v", err, pool)
	}
}

func TestInvalidateBankCacheKeepsOtherLanguages(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	mr.HSet("wisdom:bank:ar", "sports", `[{"question":"س","answer":"ج"}]`)
	mr.HSet("wisdom:bank:en", "sports", `[{"question":"Q","answer":"A"}]`)

	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()
	if err := invalidateBankCache(context.Background(), cfg, domain.LanguageArabic); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("wisdom:bank:ar") || !mr.Exists("wisdom:bank:en") {
		t.Fatalf("expected only the arabic hash dropped")
	}
}

func TestInvalidateBankCacheWithoutRedis(t *testing.T) {
	if err := invalidateBankCache(context.Background(), config.Config{}, domain.LanguageEnglish); err != nil {
		t.Fatalf("expected no-op without redis, got %v", err)
	}
}
