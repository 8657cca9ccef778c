package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/honganh1206/guideme/prompts"
)

type AnthropicModel struct {
	client    *anthropic.Client
	model     ModelVersion
	maxTokens int64
}

func NewAnthropicModel(client *anthropic.Client, model ModelVersion, maxTokens int64) *AnthropicModel {
	return &AnthropicModel{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (m *AnthropicModel) Name() string {
	return AnthropicModelName
}

func getAnthropicModel(model ModelVersion) anthropic.Model {
	switch model {
	case Claude4Opus:
		return anthropic.ModelClaudeOpus4_0
	case Claude4Sonnet:
		return anthropic.ModelClaudeSonnet4_0
	case Claude37Sonnet:
		return anthropic.ModelClaude3_7SonnetLatest
	case Claude35Haiku:
		return anthropic.ModelClaude3_5HaikuLatest
	default:
		return anthropic.ModelClaudeSonnet4_0
	}
}

func (m *AnthropicModel) Reply(ctx context.Context, message string, chatContext map[string]any) (string, error) {
	resp, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     getAnthropicModel(m.model),
		MaxTokens: m.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: prompts.System()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(message, chatContext))),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic call failed: %w", err)
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}

	if reply.Len() == 0 {
		return "", fmt.Errorf("no content returned")
	}

	return reply.String(), nil
}
