package factory

import (
	"fmt"
	"time"

	"synthmind-be/pkg/llm"
	"synthmind-be/pkg/llm/ollama"
	"synthmind-be/pkg/llm/openaicompat"
)

// NewLLMProvider picks the model backend. apiKey is only used by the
// OpenAI-compatible backend.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string, timeout time.Duration) (llm.LLMProvider, error) {
	switch providerType {
	case "ollama":
		if baseURL == "" {
			baseURL = ollama.DefaultBaseURL
		}
		if modelName == "" {
			modelName = ollama.DefaultModel
		}
		return ollama.NewOllamaProvider(baseURL, modelName, timeout), nil
	case "openai-compatible":
		if baseURL == "" {
			return nil, fmt.Errorf("openai-compatible provider requires a base URL")
		}
		return openaicompat.NewProvider(apiKey, baseURL, modelName, timeout), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
