package metadata

// Model describes a known chat model and its token pricing.
type Model struct {
	ID         string
	Label      string
	Provider   string
	PricePer1K float64
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "gpt-4-1106-preview"
	DefaultGeminiModel = "gemini-1.5-flash"

	// DefaultPricePer1K is a blended per-1000-token estimate used when the
	// model is not in the table. Cost output is an estimate either way.
	DefaultPricePer1K = 0.01
)

var Models = []Model{
	{ID: "gpt-4-1106-preview", Label: "GPT-4 Turbo (1106)", Provider: ProviderOpenAI, PricePer1K: 0.01},
	{ID: "gpt-4o", Label: "GPT-4o", Provider: ProviderOpenAI, PricePer1K: 0.005},
	{ID: "gpt-4o-mini", Label: "GPT-4o mini", Provider: ProviderOpenAI, PricePer1K: 0.0006},
	{ID: "gemini-1.5-flash", Label: "Gemini 1.5 Flash", Provider: ProviderGemini, PricePer1K: 0.0003},
	{ID: "gemini-1.5-pro", Label: "Gemini 1.5 Pro", Provider: ProviderGemini, PricePer1K: 0.005},
}

// Pricing returns the pricing entry for a model ID. The second return is
// false when the model is unknown and the default estimate is returned.
func Pricing(modelID string) (Model, bool) {
	for _, m := range Models {
		if m.ID == modelID {
			return m, true
		}
	}
	return Model{
		ID:         modelID,
		Label:      "Unknown model",
		PricePer1K: DefaultPricePer1K,
	}, false
}

// DefaultModel returns the default model ID for a provider.
func DefaultModel(provider string) string {
	if provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultOpenAIModel
}

// ModelIDs returns the known model IDs for a provider, for CLI help output.
func ModelIDs(provider string) []string {
	var ids []string
	for _, m := range Models {
		if m.Provider == provider {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
