// ABOUTME: Answer translation service caches per-language translations of a record's answer
// ABOUTME: Serves cached languages, translates on demand and merges new languages into the record

package translation

import (
	"context"

	"gbbinfo-knowledge-api/core/domain"
	"gbbinfo-knowledge-api/core/interfaces"
	"gbbinfo-knowledge-api/core/tiered"
)

// Service answers translated-answer lookups for cached search records
type Service struct {
	cache          *tiered.Cache
	translator     *Translator
	sourceLanguage string
	logger         interfaces.Logger
}

// NewService creates a translation service. An empty sourceLanguage falls
// back to DefaultSourceLanguage.
func NewService(cache *tiered.Cache, translator *Translator, sourceLanguage string, logger interfaces.Logger) *Service {
	if sourceLanguage == "" {
		sourceLanguage = DefaultSourceLanguage
	}
	return &Service{
		cache:          cache,
		translator:     translator,
		sourceLanguage: sourceLanguage,
		logger:         logger,
	}
}

// TranslatedAnswer returns the answer of the record at key in language. The
// empty string means there is no answer yet or translation failed.
func (s *Service) TranslatedAnswer(ctx context.Context, key, language string) string {
	if text, ok := s.cachedTranslation(ctx, key, language); ok {
		return text
	}

	var answer string
	if found, _ := s.cache.GetColumn(ctx, key, domain.ColumnAnswer, &answer); !found || answer == "" {
		return ""
	}

	if language == s.sourceLanguage {
		return answer
	}

	translated, ok := s.translator.Translate(ctx, answer, language)
	if !ok {
		return ""
	}

	s.merge(ctx, key, language, translated)
	return translated
}

// cachedTranslation checks the local tier first and, when its copy of the
// map lacks the language, the durable tier.
func (s *Service) cachedTranslation(ctx context.Context, key, language string) (string, bool) {
	var translations map[string]string
	found, _ := s.cache.GetColumn(ctx, key, domain.ColumnAnswerTranslations, &translations)
	if !found {
		return "", false
	}
	if text, ok := translations[language]; ok && text != "" {
		return text, true
	}

	translations = nil
	if found, _ := s.cache.RefreshColumn(ctx, key, domain.ColumnAnswerTranslations, &translations); found {
		if text, ok := translations[language]; ok && text != "" {
			return text, true
		}
	}
	return "", false
}

// merge adds the translation to the current map and writes it back. Other
// languages from either tier are preserved. A durable failure has already
// been logged by the cache and the local tier keeps the merged map.
func (s *Service) merge(ctx context.Context, key, language, translated string) {
	var local, durable map[string]string
	_, _ = s.cache.GetColumn(ctx, key, domain.ColumnAnswerTranslations, &local)
	_, _ = s.cache.RefreshColumn(ctx, key, domain.ColumnAnswerTranslations, &durable)

	merged := make(map[string]string, len(local)+len(durable)+1)
	for lang, text := range local {
		merged[lang] = text
	}
	for lang, text := range durable {
		merged[lang] = text
	}
	merged[language] = translated

	if err := s.cache.SetColumn(ctx, key, domain.ColumnAnswerTranslations, merged, 0); err != nil {
		s.logger.Debug("Translation kept in local cache only", map[string]interface{}{
			"key":      key,
			"language": language,
		})
	}
}
