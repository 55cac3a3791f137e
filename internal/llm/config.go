// Package llm wraps the text generation provider behind a small client
// interface and holds the model configuration.
package llm

// ModelTier names a capability level; the configuration maps it to a model.
type ModelTier string

const (
	// TierLite is the cheapest model, used for quick drafts.
	TierLite ModelTier = "lite"
	// TierStandard is the default model for cover letter generation.
	TierStandard ModelTier = "standard"
	// TierAdvanced trades latency for quality.
	TierAdvanced ModelTier = "advanced"
)

// Provider identifies an LLM vendor.
type Provider string

// ProviderGemini is the Google Gemini API.
const ProviderGemini Provider = "gemini"

// Config selects the provider, the model for each tier, and sampling.
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// Temperature overrides the model default when non-nil.
	Temperature *float32
}

// DefaultConfig returns the Gemini configuration used by the generator.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model for tier, falling back to the standard and
// then the lite model. It returns "" when nothing is configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok && model != "" {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of c with model assigned to tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	next.Models[tier] = model
	return next
}
