package utils

import (
	"strings"

	"travel-graph/backend/internal/constants"
)

// languagePatterns maps language codes to phrases that signal the user
// wants the conversation held in that language
var languagePatterns = map[string][]string{
	constants.LanguageCodeFrench:     {"speak french", "respond in french", "in french", "lang=fr", "language=french"},
	constants.LanguageCodeSpanish:    {"speak spanish", "respond in spanish", "in spanish", "lang=es", "language=spanish"},
	constants.LanguageCodeGerman:     {"speak german", "respond in german", "in german", "lang=de", "language=german"},
	constants.LanguageCodeItalian:    {"speak italian", "respond in italian", "in italian", "lang=it", "language=italian"},
	constants.LanguageCodePortuguese: {"speak portuguese", "respond in portuguese", "in portuguese", "lang=pt", "language=portuguese"},
	constants.LanguageCodeJapanese:   {"speak japanese", "respond in japanese", "in japanese", "lang=ja", "language=japanese"},
	constants.LanguageCodeChinese:    {"speak chinese", "respond in chinese", "in chinese", "lang=zh", "language=chinese"},
	constants.LanguageCodeKorean:     {"speak korean", "respond in korean", "in korean", "lang=ko", "language=korean"},
	constants.LanguageCodeRussian:    {"speak russian", "respond in russian", "in russian", "lang=ru", "language=russian"},
}

// languageNames maps language codes to display names
var languageNames = map[string]string{
	constants.LanguageCodeEnglish:    "English",
	constants.LanguageCodeFrench:     "French",
	constants.LanguageCodeSpanish:    "Spanish",
	constants.LanguageCodeGerman:     "German",
	constants.LanguageCodeItalian:    "Italian",
	constants.LanguageCodePortuguese: "Portuguese",
	constants.LanguageCodeJapanese:   "Japanese",
	constants.LanguageCodeChinese:    "Chinese",
	constants.LanguageCodeKorean:     "Korean",
	constants.LanguageCodeRussian:    "Russian",
}

// DetectLanguage returns the language code a message asks for, or English
// when no pattern matches. Matching is substring based, so "fly to Paris"
// stays English while "book in french" switches.
func DetectLanguage(content string) string {
	lower := strings.ToLower(content)
	for code, patterns := range languagePatterns {
		for _, pattern := range patterns {
			if strings.Contains(lower, pattern) {
				return code
			}
		}
	}
	return constants.LanguageCodeEnglish
}

// LanguageName returns the display name for a language code, falling back
// to the code itself.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
