package question

import "wisdom-spin/internal/domain"

const (
	msgLocalArchive = "question.local_archive"
	msgRemoteFailed = "question.remote_failed"
)

var messages = map[domain.Language]map[string]string{
	domain.LanguageArabic: {
		msgLocalArchive: "من الأرشيف المحلي",
		msgRemoteFailed: "عذراً، تعذر الاتصال بالذكاء الاصطناعي حالياً. تم استخدام سؤال احتياطي.",
	},
	domain.LanguageEnglish: {
		msgLocalArchive: "From local archive",
		msgRemoteFailed: "AI connection failed. Using fallback question.",
	},
}

// Message returns the localized notice for key, falling back to English.
func Message(lang domain.Language, key string) string {
	if m, ok := messages[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if v, ok := messages[domain.LanguageEnglish][key]; ok {
		return v
	}
	return key
}
