package inference

import (
	"context"
	"fmt"
)

// Demo answers without any LLM behind it.
type Demo struct{}

func (Demo) Name() string {
	return DemoModelName
}

func (Demo) Reply(_ context.Context, message string, _ map[string]any) (string, error) {
	return fmt.Sprintf("Demo response received: %s", message), nil
}
