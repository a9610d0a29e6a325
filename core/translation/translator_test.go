package translation

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("WING is a beatboxer.", "ko")

	if !strings.HasPrefix(prompt, "Translate this text to ko.\n") {
		t.Errorf("prompt should start with the target language, got %q", prompt)
	}
	if !strings.Contains(prompt, "Keep names in English.") {
		t.Error("prompt should ask to keep names in English")
	}
	if !strings.Contains(prompt, `"translated_text": "translation here"`) {
		t.Error("prompt should describe the JSON reply format")
	}
	if !strings.HasSuffix(prompt, "Text: WING is a beatboxer.\n") {
		t.Errorf("prompt should end with the text, got %q", prompt)
	}
}

func TestTranslator_Translate_Success(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "```json\n{\"translated_text\": \" 안녕하세요 \"}\n```", nil
		},
	}
	translator := NewTranslator(llm, nopLogger{})

	got, ok := translator.Translate(context.Background(), "Hello", "ko")
	if !ok || got != "안녕하세요" {
		t.Errorf("Translate() = (%q, %v), want (안녕하세요, true)", got, ok)
	}
}

func TestTranslator_Translate_ProviderError(t *testing.T) {
	llm := &mockLLM{
		generateFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	translator := NewTranslator(llm, nopLogger{})

	if got, ok := translator.Translate(context.Background(), "Hello", "ko"); ok || got != "" {
		t.Errorf("Translate() = (%q, %v), want failure", got, ok)
	}
}

func TestTranslator_Translate_UnusableReplies(t *testing.T) {
	replies := []string{
		"I'm sorry, I can't help with that.",
		`{"text": "wrong field"}`,
		`{"translated_text": ""}`,
		`{"translated_text": 42}`,
	}

	for _, reply := range replies {
		reply := reply
		llm := &mockLLM{
			generateFunc: func(ctx context.Context, prompt string) (string, error) {
				return reply, nil
			},
		}
		translator := NewTranslator(llm, nopLogger{})

		if got, ok := translator.Translate(context.Background(), "Hello", "ko"); ok {
			t.Errorf("Translate() with reply %q = %q, want failure", reply, got)
		}
	}
}
