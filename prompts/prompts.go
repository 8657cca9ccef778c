package prompts

import (
	_ "embed"
	"strings"
)

//go:embed system.md
var systemPrompt string

func System() string {
	trimmedPrompt := strings.TrimSpace(systemPrompt)
	if len(trimmedPrompt) == 0 {
		return systemPrompt
	}

	return trimmedPrompt
}
