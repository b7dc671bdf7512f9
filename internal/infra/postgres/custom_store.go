package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"wisdom-spin/internal/domain"
)

// CustomQuestion is a host-authored row of the fallback bank.
type CustomQuestion struct {
	bun.BaseModel `bun:"table:fallback_questions"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Lang        string    `bun:"lang,notnull"`
	Category    string    `bun:"category,notnull"`
	Question    string    `bun:"question,notnull"`
	Answer      string    `bun:"answer,notnull"`
	Explanation string    `bun:"explanation,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Item converts the row to a bank item.
func (q CustomQuestion) Item() domain.BankItem {
	return domain.BankItem{Question: q.Question, Answer: q.Answer, Explanation: q.Explanation}
}

// CustomStore manages custom questions with bun.
type CustomStore struct {
	db *bun.DB
}

func NewCustomStore(db *bun.DB) *CustomStore {
	return &CustomStore{db: db}
}

// Add validates and stores one question. Custom questions need a concrete
// category; the random sentinel is rejected.
func (s *CustomStore) Add(ctx context.Context, lang domain.Language, cat domain.Category, item domain.BankItem) (CustomQuestion, error) {
	if !lang.Valid() {
		return CustomQuestion{}, domain.ErrInvalidLanguage
	}
	if !cat.Valid() || cat == domain.CategoryRandom {
		return CustomQuestion{}, domain.ErrInvalidCategory
	}
	row := CustomQuestion{
		Lang:        string(lang),
		Category:    string(cat),
		Question:    strings.TrimSpace(item.Question),
		Answer:      strings.TrimSpace(item.Answer),
		Explanation: strings.TrimSpace(item.Explanation),
	}
	if row.Question == "" || row.Answer == "" {
		return CustomQuestion{}, domain.ErrIncompleteQuestion
	}
	if _, err := s.db.NewInsert().Model(&row).Returning("*").Exec(ctx); err != nil {
		return CustomQuestion{}, fmt.Errorf("insert question: %w", err)
	}
	return row, nil
}

// List returns stored questions, optionally filtered; empty filters match all.
func (s *CustomStore) List(ctx context.Context, lang domain.Language, cat domain.Category) ([]CustomQuestion, error) {
	var rows []CustomQuestion
	q := s.db.NewSelect().Model(&rows).Order("id ASC")
	if lang != "" {
		q = q.Where("lang = ?", string(lang))
	}
	if cat != "" {
		q = q.Where("category = ?", string(cat))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return rows, nil
}

// Delete removes a question by id and returns the removed row.
func (s *CustomStore) Delete(ctx context.Context, id int64) (CustomQuestion, error) {
	var row CustomQuestion
	res, err := s.db.NewDelete().Model(&row).Where("id = ?", id).Returning("*").Exec(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return CustomQuestion{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return CustomQuestion{}, fmt.Errorf("delete question: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return CustomQuestion{}, domain.ErrQuestionNotFound
	}
	return row, nil
}
