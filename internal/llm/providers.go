package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

func newBackend(ctx context.Context, p Provider, model string, cfg Config) (Backend, error) {
	switch p {
	case ProviderMock:
		return MockBackend{}, nil
	case ProviderOllama:
		opts := []ollama.Option{
			ollama.WithModel(model),
			ollama.WithKeepAlive("5m"),
		}
		if url := strings.TrimSpace(cfg.OllamaURL); url != "" {
			opts = append(opts, ollama.WithServerURL(url))
		}
		client, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return &modelBackend{name: string(p), model: client}, nil
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required for provider %s", ErrMissingCredential, p)
		}
		opts := []openai.Option{
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(model),
		}
		if url := strings.TrimSpace(cfg.OpenAIBaseURL); url != "" {
			opts = append(opts, openai.WithBaseURL(url))
		}
		client, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		return &modelBackend{name: string(p), model: client}, nil
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is required for provider %s", ErrMissingCredential, p)
		}
		client, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return &modelBackend{name: string(p), model: client}, nil
	default:
		return nil, fmt.Errorf("provider %q has no backend", p)
	}
}
