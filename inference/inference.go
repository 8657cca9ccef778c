package inference

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

// Model produces the assistant's reply to a single chat message.
type Model interface {
	Reply(ctx context.Context, message string, chatContext map[string]any) (string, error)
	Name() string
}

type ModelConfig struct {
	Provider  string
	Model     string
	MaxTokens int64
}

func Init(ctx context.Context, config ModelConfig) (Model, error) {
	if config.Model == "" {
		config.Model = string(GetDefaultModel(ProviderName(config.Provider)))
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 1024
	}

	switch config.Provider {
	case "", DemoProvider:
		return Demo{}, nil
	case AnthropicProvider:
		client := anthropic.NewClient() // Default to look up ANTHROPIC_API_KEY
		return NewAnthropicModel(&client, ModelVersion(config.Model), config.MaxTokens), nil
	case GoogleProvider:
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return NewGeminiModel(client, ModelVersion(config.Model), config.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown model provider: %s", config.Provider)
	}
}

func ListAvailableModels(provider ProviderName) []ModelVersion {
	switch provider {
	case AnthropicProvider:
		return []ModelVersion{
			Claude4Opus,
			Claude4Sonnet,
			Claude37Sonnet,
			Claude35Haiku,
		}
	case GoogleProvider:
		return []ModelVersion{
			Gemini25Pro,
			Gemini25Flash,
			Gemini20Flash,
			Gemini20FlashLite,
		}
	default:
		return []ModelVersion{}
	}
}

func GetDefaultModel(provider ProviderName) ModelVersion {
	switch provider {
	case AnthropicProvider:
		return Claude4Sonnet
	case GoogleProvider:
		return Gemini25Flash
	default:
		return ""
	}
}

// userPrompt appends the string-valued context fields to message so the
// model can see them. Keys are sorted to keep prompts stable.
func userPrompt(message string, chatContext map[string]any) string {
	keys := make([]string, 0, len(chatContext))
	for k, v := range chatContext {
		if k == "message" {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return message
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\nContext:\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, chatContext[k])
	}

	return strings.TrimRight(b.String(), "\n")
}
