package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"visaforge-be/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

const (
	DefaultChatModel       = "gpt-4o-mini"
	DefaultTranscribeModel = goopenai.Whisper1
)

var ErrEmptyCompletion = errors.New("openai returned no choices")

type Provider struct {
	client          *goopenai.Client
	model           string
	transcribeModel string
}

var (
	_ llm.LLMProvider = &Provider{}
	_ llm.Transcriber = &Provider{}
)

func NewProvider(apiKey, model, transcribeModel string) *Provider {
	return newProvider(goopenai.DefaultConfig(apiKey), model, transcribeModel)
}

// NewProviderWithBaseURL targets an OpenAI-compatible endpoint.
func NewProviderWithBaseURL(apiKey, baseURL, model, transcribeModel string) *Provider {
	cfg := goopenai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return newProvider(cfg, model, transcribeModel)
}

func newProvider(cfg goopenai.ClientConfig, model, transcribeModel string) *Provider {
	if model == "" {
		model = DefaultChatModel
	}
	if transcribeModel == "" {
		transcribeModel = DefaultTranscribeModel
	}
	return &Provider{
		client:          goopenai.NewClientWithConfig(cfg),
		model:           model,
		transcribeModel: transcribeModel,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(0.7, opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	messages := make([]goopenai.ChatCompletionMessage, len(history))
	for i, msg := range history {
		messages[i] = goopenai.ChatCompletionMessage{Role: msg.Role, Content: msg.Content}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: float32(options.Temperature),
	}
	if options.MaxTokens > 0 {
		req.MaxTokens = options.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *Provider) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if filename == "" {
		filename = "audio.webm"
	}
	resp, err := p.client.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    p.transcribeModel,
		FilePath: filename,
		Reader:   audio,
	})
	if err != nil {
		return "", fmt.Errorf("openai transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
