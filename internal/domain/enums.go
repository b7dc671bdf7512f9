package domain

// Category is a trivia topic. CategoryRandom is a sentinel resolved before fetching.
type Category string

const (
	CategoryReligion   Category = "religion"
	CategoryGeography  Category = "geography"
	CategoryHistory    Category = "history"
	CategoryScience    Category = "science"
	CategorySports     Category = "sports"
	CategoryLiterature Category = "literature"
	CategoryArt        Category = "art"
	CategoryRandom     Category = "random"
)

// DefaultCategory backs the local bank when a category has no pool.
const DefaultCategory = CategoryGeography

// CategoryOptions lists what a host can pick, in display order.
var CategoryOptions = []Category{
	CategoryRandom, CategoryReligion, CategoryGeography, CategoryScience,
	CategoryHistory, CategorySports, CategoryLiterature, CategoryArt,
}

// RandomPool is drawn from when the random sentinel is selected.
var RandomPool = []Category{
	CategoryReligion, CategoryGeography, CategoryHistory, CategoryScience,
	CategorySports, CategoryLiterature, CategoryArt,
}

var categoryLabels = map[Category][2]string{
	CategoryReligion:   {"ديني 🕋", "Religion 🕋"},
	CategoryGeography:  {"جغرافيا 🌍", "Geography 🌍"},
	CategoryHistory:    {"تاريخ 📜", "History 📜"},
	CategoryScience:    {"علوم 🔬", "Science 🔬"},
	CategorySports:     {"رياضة 🏅", "Sports 🏅"},
	CategoryLiterature: {"أدب 📚", "Literature 📚"},
	CategoryArt:        {"فن 🎨", "Art 🎨"},
	CategoryRandom:     {"عشوائي 🎲", "Random 🎲"},
}

// Valid reports whether c is a known category or the random sentinel.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the localized display name.
func (c Category) Label(lang Language) string {
	labels, ok := categoryLabels[c]
	if !ok {
		return string(c)
	}
	if lang == LanguageArabic {
		return labels[0]
	}
	return labels[1]
}

// Difficulty is the requested question hardness.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyOptions lists the selectable difficulties.
var DifficultyOptions = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Language selects question and notice language.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// DefaultLanguage is the last-resort bank language.
const DefaultLanguage = LanguageArabic

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageEnglish
}

// Name is the English name used in generator prompts.
func (l Language) Name() string {
	if l == LanguageArabic {
		return "Arabic"
	}
	return "English"
}
