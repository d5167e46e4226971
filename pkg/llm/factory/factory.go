package factory

import (
	"fmt"

	"visaforge-be/pkg/llm"
	"visaforge-be/pkg/llm/openai"
)

// Provider is a chat model that can also transcribe audio.
type Provider interface {
	llm.LLMProvider
	llm.Transcriber
}

func NewLLMProvider(providerType, apiKey, baseURL, chatModel, transcribeModel string) (Provider, error) {
	switch providerType {
	case "", "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY missing")
		}
		if baseURL != "" {
			return openai.NewProviderWithBaseURL(apiKey, baseURL, chatModel, transcribeModel), nil
		}
		return openai.NewProvider(apiKey, chatModel, transcribeModel), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
