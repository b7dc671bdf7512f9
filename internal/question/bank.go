package question

import (
	"context"
	"errors"
	"log"

	"wisdom-spin/internal/domain"
)

// PoolLoader returns the local questions for a language/category pair.
// Implementations return domain.ErrPoolNotFound when the pair has no questions.
type PoolLoader interface {
	LoadPool(ctx context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error)
}

// StaticBank is the archive bundled with the binary.
type StaticBank struct {
	pools map[domain.Language]map[domain.Category][]domain.BankItem
}

// NewStaticBank returns the built-in archive.
func NewStaticBank() *StaticBank {
	return &StaticBank{pools: builtinPools}
}

// NewStaticBankFrom serves the given pools; handy for tests and demos.
func NewStaticBankFrom(pools map[domain.Language]map[domain.Category][]domain.BankItem) *StaticBank {
	return &StaticBank{pools: pools}
}

func (b *StaticBank) LoadPool(_ context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	if pool := b.pools[lang][cat]; len(pool) > 0 {
		return pool, nil
	}
	return nil, domain.ErrPoolNotFound
}

// ChainLoader asks each loader in turn and returns the first non-empty pool.
type ChainLoader []PoolLoader

func (c ChainLoader) LoadPool(ctx context.Context, lang domain.Language, cat domain.Category) ([]domain.BankItem, error) {
	var lastErr error = domain.ErrPoolNotFound
	for _, l := range c {
		pool, err := l.LoadPool(ctx, lang, cat)
		if err == nil && len(pool) > 0 {
			return pool, nil
		}
		if err != nil && !errors.Is(err, domain.ErrPoolNotFound) {
			log.Printf("question pool %s/%s: %v", lang, cat, err)
			lastErr = err
		}
	}
	return nil, lastErr
}

// ResolvePool walks the fallback tiers: the exact pair, the default category
// in the same language, then the default category in the default language.
// If the loader has none of those the bundled archive is used, so the result
// is never empty.
func ResolvePool(ctx context.Context, loader PoolLoader, lang domain.Language, cat domain.Category) []domain.BankItem {
	tiers := []struct {
		lang domain.Language
		cat  domain.Category
	}{
		{lang, cat},
		{lang, domain.DefaultCategory},
		{domain.DefaultLanguage, domain.DefaultCategory},
	}
	if loader != nil {
		for _, t := range tiers {
			pool, err := loader.LoadPool(ctx, t.lang, t.cat)
			if err == nil && len(pool) > 0 {
				return pool
			}
		}
	}
	return builtinPools[domain.DefaultLanguage][domain.DefaultCategory]
}

var builtinPools = map[domain.Language]map[domain.Category][]domain.BankItem{
	domain.LanguageArabic: {
		domain.CategoryReligion: {
			{Question: "ما هو الركن الثاني من أركان الإسلام؟", Answer: "الصلاة", Explanation: "تعتبر الصلاة عماد الدين وهي أول ما يحاسب عليه المرء."},
			{Question: "من هو أول خليفة بعد النبي محمد ﷺ؟", Answer: "أبو بكر الصديق رضي الله عنه"},
			{Question: "ما اسم أطول سورة في القرآن الكريم؟", Answer: "سورة البقرة"},
		},
		domain.CategoryGeography: {
			{Question: "ما هي عاصمة اليابان؟", Answer: "طوكيو"},
			{Question: "ما هي أصغر دولة في العالم من حيث المساحة؟", Answer: "الفاتيكان"},
			{Question: "ما هو أطول نهر في العالم؟", Answer: "نهر النيل"},
		},
		domain.CategoryScience: {
			{Question: "ما هو الكوكب الملقب بالكوكب الأحمر؟", Answer: "المريخ"},
			{Question: "ما هو الرمز الكيميائي للأكسجين؟", Answer: "O"},
			{Question: "ما هي أصلب مادة طبيعية على وجه الأرض؟", Answer: "الألماس"},
		},
		domain.CategoryHistory: {
			{Question: "من هو العالم الذي اكتشف الجاذبية؟", Answer: "إسحاق نيوتن"},
			{Question: "في أي عام بدأت الحرب العالمية الأولى؟", Answer: "1914"},
		},
	},
	domain.LanguageEnglish: {
		domain.CategoryReligion:  {{Question: "What is the second pillar of Islam?", Answer: "Prayer (Salah)"}},
		domain.CategoryGeography: {{Question: "What is the capital of Japan?", Answer: "Tokyo"}},
		domain.CategoryScience:   {{Question: "What is the chemical symbol for Oxygen?", Answer: "O"}},
		domain.CategoryHistory:   {{Question: "Who discovered gravity?", Answer: "Isaac Newton"}},
	},
}
