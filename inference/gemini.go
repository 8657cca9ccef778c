package inference

import (
	"context"
	"fmt"
	"strings"

	"github.com/honganh1206/guideme/prompts"
	"google.golang.org/genai"
)

type GeminiModel struct {
	client    *genai.Client
	model     ModelVersion
	maxTokens int64
}

func NewGeminiModel(client *genai.Client, model ModelVersion, maxTokens int64) *GeminiModel {
	return &GeminiModel{
		client:    client,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (m *GeminiModel) Name() string {
	return GoogleModelName
}

func (m *GeminiModel) Reply(ctx context.Context, message string, chatContext map[string]any) (string, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens:   int32(m.maxTokens),
		SystemInstruction: genai.NewContentFromText(prompts.System(), genai.RoleUser),
	}

	contents := []*genai.Content{
		genai.NewContentFromText(userPrompt(message, chatContext), genai.RoleUser),
	}

	response, err := m.client.Models.GenerateContent(ctx, string(m.model), contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini call failed: %w", err)
	}

	if len(response.Candidates) == 0 || response.Candidates[0].Content == nil {
		return "", fmt.Errorf("no content returned")
	}

	var reply strings.Builder
	for _, p := range response.Candidates[0].Content.Parts {
		if p.Text != "" {
			reply.WriteString(p.Text)
		}
	}

	if reply.Len() == 0 {
		return "", fmt.Errorf("no content returned")
	}

	return reply.String(), nil
}
