package llm

import (
	"context"
	"errors"

	"github.com/tmc/langchaingo/llms"
)

// Backend is one language-model provider.
type Backend interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

var errEmptyResponse = errors.New("empty model response")

// modelBackend adapts any langchaingo model to Backend.
type modelBackend struct {
	name  string
	model llms.Model
}

func (b *modelBackend) Name() string { return b.name }

func (b *modelBackend) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	resp, err := b.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Content, nil
}
