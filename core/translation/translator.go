// ABOUTME: Translator asks the LLM provider to translate text into a target language
// ABOUTME: Replies are run through the repair pipeline and reduced to the translated text

package translation

import (
	"context"
	"strings"

	"gbbinfo-knowledge-api/core/interfaces"
)

// DefaultSourceLanguage is the language search answers are produced in
const DefaultSourceLanguage = "en"

// responseField is the JSON field the prompt asks the model to fill
const responseField = "translated_text"

const promptTemplate = `Translate this text to {lang}.
Keep names in English. Return JSON only. Strictly follow the JSON format for output:
{
    "translated_text": "translation here"
}

Text: {text}
`

// Translator translates free text with an LLM provider. Rate limiting is
// the provider's concern.
type Translator struct {
	llm    interfaces.LLMProvider
	logger interfaces.Logger
}

// NewTranslator creates a translator
func NewTranslator(llm interfaces.LLMProvider, logger interfaces.Logger) *Translator {
	return &Translator{llm: llm, logger: logger}
}

// BuildPrompt renders the translation prompt for text and language
func BuildPrompt(text, language string) string {
	return strings.NewReplacer("{lang}", language, "{text}", text).Replace(promptTemplate)
}

// Translate returns the translation of text into language. ok is false when
// the provider fails or its reply holds no usable translation.
func (t *Translator) Translate(ctx context.Context, text, language string) (string, bool) {
	reply, err := t.llm.Generate(ctx, BuildPrompt(text, language))
	if err != nil {
		t.logger.Warn("Translation request failed", map[string]interface{}{
			"language": language,
			"error":    err.Error(),
		})
		return "", false
	}

	obj, ok := Repair(reply)
	if !ok {
		t.logger.Warn("Translation reply could not be parsed", map[string]interface{}{
			"language":     language,
			"reply_length": len(reply),
		})
		return "", false
	}

	translated, _ := obj[responseField].(string)
	translated = strings.TrimSpace(translated)
	if translated == "" {
		t.logger.Warn("Translation reply has no translated text", map[string]interface{}{
			"language": language,
		})
		return "", false
	}

	return translated, true
}
