package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"wisdom-spin/internal/domain"
)

// BankLoader reads the fallback question bank from Postgres.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadPool(ctx context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT question, answer, explanation FROM fallback_questions WHERE lang=$1 AND category=$2 ORDER BY id`,
		string(lang), string(cat))
	if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	defer rows.Close()

	var items []domain.BankItem
	for rows.Next() {
		var item domain.BankItem
		if err := rows.Scan(&item.Question, &item.Answer, &item.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrPoolNotFound
	}
	return items, nil
}
