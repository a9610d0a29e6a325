package featureflags

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvManager_DefaultsWhenUnset(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	// Unset variables fall back to Defaults
	assert.True(t, manager.IsEnabled(ctx, AnswerTranslation))
	assert.True(t, manager.IsEnabled(ctx, LookupRecording))
	assert.False(t, manager.IsEnabled(ctx, "unknown_flag"))
}

func TestEnvManager_DisabledWhenFlagSet(t *testing.T) {
	os.Setenv("TEST_FEATURE_LOOKUP_RECORDING", "false")
	defer os.Unsetenv("TEST_FEATURE_LOOKUP_RECORDING")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.False(t, manager.IsEnabled(ctx, LookupRecording))
}

func TestEnvManager_MultipleValues(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"true lowercase", "true", true},
		{"TRUE uppercase", "TRUE", true},
		{"1 numeric", "1", true},
		{"enabled", "enabled", true},
		{"ENABLED", "ENABLED", true},
		{"false", "false", false},
		{"0", "0", false},
		{"other", "yes", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv("TEST_FLAG", tt.value)
			defer os.Unsetenv("TEST_FLAG")

			manager := NewEnvManager("TEST_")
			ctx := context.Background()

			assert.Equal(t, tt.expected, manager.IsEnabled(ctx, "FLAG"))
		})
	}
}

func TestEnvManager_OverrideTakesPrecedence(t *testing.T) {
	os.Setenv("TEST_FEATURE_ANSWER_TRANSLATION", "true")
	defer os.Unsetenv("TEST_FEATURE_ANSWER_TRANSLATION")

	manager := NewEnvManager("TEST_FEATURE_")
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, AnswerTranslation))

	manager.SetEnabled(AnswerTranslation, false)

	assert.False(t, manager.IsEnabled(ctx, AnswerTranslation))
}

func TestEnvManager_GetAllFlags(t *testing.T) {
	manager := NewEnvManager("TEST_FEATURE_")
	manager.SetEnabled(RateLimitEnabled, false)

	flags := manager.GetAllFlags()

	assert.Len(t, flags, len(Defaults))
	assert.False(t, flags[RateLimitEnabled])
	assert.True(t, flags[AnswerTranslation])
}

func TestStaticManager(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		AnswerTranslation: true,
		LookupRecording:   false,
	})
	ctx := context.Background()

	assert.True(t, manager.IsEnabled(ctx, AnswerTranslation))
	assert.False(t, manager.IsEnabled(ctx, LookupRecording))
	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled)) // Not in initial map
}

func TestStaticManager_SetEnabled(t *testing.T) {
	manager := NewStaticManager(nil)
	ctx := context.Background()

	assert.False(t, manager.IsEnabled(ctx, RateLimitEnabled))

	manager.SetEnabled(RateLimitEnabled, true)
	assert.True(t, manager.IsEnabled(ctx, RateLimitEnabled))
}

func TestGetAllFlags(t *testing.T) {
	flags := map[FeatureFlag]bool{
		AnswerTranslation: true,
		LookupRecording:   false,
		RateLimitEnabled:  true,
	}

	manager := NewStaticManager(flags)

	assert.Equal(t, flags, manager.GetAllFlags())
}

func TestContextIntegration(t *testing.T) {
	manager := NewStaticManager(map[FeatureFlag]bool{
		LookupRecording: true,
	})

	ctx := WithManager(context.Background(), manager)

	assert.True(t, IsEnabled(ctx, LookupRecording))
	assert.False(t, IsEnabled(ctx, AnswerTranslation))
}

func TestFromContext_DefaultManager(t *testing.T) {
	ctx := context.Background()

	// Without a manager in context the defaults apply
	assert.True(t, IsEnabled(ctx, AnswerTranslation))
	assert.False(t, IsEnabled(ctx, "unknown_flag"))
}

func TestConcurrentAccess(t *testing.T) {
	manager := NewStaticManager(nil)
	ctx := context.Background()

	done := make(chan bool)

	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				manager.SetEnabled(LookupRecording, j%2 == 0)
			}
			done <- true
		}()
	}

	for i := 0; i < 5; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				_ = manager.IsEnabled(ctx, LookupRecording)
			}
			done <- true
		}()
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}
