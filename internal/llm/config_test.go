package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Nil(t, config.Temperature)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite: "fallback-model",
		},
	}

	assert.Equal(t, "fallback-model", config.GetModel("unknown"))
	assert.Equal(t, "fallback-model", config.GetModel(TierAdvanced))
}

func TestGetModel_EmptyConfig(t *testing.T) {
	config := &Config{Provider: ProviderGemini, Models: map[ModelTier]string{}}
	assert.Equal(t, "", config.GetModel(TierAdvanced))
}

func TestWithModel(t *testing.T) {
	temp := float32(0.4)
	original := DefaultConfig()
	original.Temperature = &temp

	updated := original.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", updated.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", original.GetModel(TierStandard))
	assert.Equal(t, original.GetModel(TierLite), updated.GetModel(TierLite))
	assert.Equal(t, &temp, updated.Temperature)
}
