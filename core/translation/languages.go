package translation

import "strings"

// FallbackLanguage is used when a caller asks for an unsupported language
const FallbackLanguage = "ja"

// SupportedLanguages are the language codes answers can be translated into
var SupportedLanguages = []string{
	"ja", "ko", "en", "de", "es", "fr", "hi", "hu", "it", "ms", "no", "ta", "th",
	"zh_Hans_CN", "zh_Hant_TW",
}

// NormalizeLanguage returns the supported code matching lang, ignoring case
// and treating '-' like '_'. Anything else maps to FallbackLanguage.
func NormalizeLanguage(lang string) string {
	candidate := strings.ReplaceAll(strings.TrimSpace(lang), "-", "_")
	for _, code := range SupportedLanguages {
		if strings.EqualFold(code, candidate) {
			return code
		}
	}
	return FallbackLanguage
}
