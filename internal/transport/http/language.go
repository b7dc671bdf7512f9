package http

import (
	"net/http"

	"golang.org/x/text/language"

	"wisdom-spin/internal/domain"
)

// supported is ordered so the default language comes first; the matcher
// falls back to it.
var (
	supported = []domain.Language{domain.LanguageArabic, domain.LanguageEnglish}
	matcher   = language.NewMatcher([]language.Tag{language.Arabic, language.English})
)

// negotiateLanguage picks the question language from ?lang= or Accept-Language.
func negotiateLanguage(r *http.Request) domain.Language {
	var tags []language.Tag
	if raw := r.URL.Query().Get("lang"); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		parsed, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
		if err == nil {
			tags = parsed
		}
	}
	if len(tags) == 0 {
		return domain.DefaultLanguage
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return domain.DefaultLanguage
	}
	return supported[idx]
}
