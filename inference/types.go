package inference

const (
	AnthropicModelName = "Claude"
	GoogleModelName    = "Gemini"
	DemoModelName      = "Demo"
)

const (
	AnthropicProvider = "anthropic"
	GoogleProvider    = "google"
	DemoProvider      = "demo"
)

type ProviderName string
type ModelVersion string

const (
	// Claude
	Claude4Opus    ModelVersion = "claude-4-opus"
	Claude4Sonnet  ModelVersion = "claude-4-sonnet"
	Claude37Sonnet ModelVersion = "claude-3-7-sonnet"
	Claude35Haiku  ModelVersion = "claude-3-5-haiku"
	// Gemini
	Gemini25Pro       ModelVersion = "gemini-2.5-pro"
	Gemini25Flash     ModelVersion = "gemini-2.5-flash"
	Gemini20Flash     ModelVersion = "gemini-2.0-flash"
	Gemini20FlashLite ModelVersion = "gemini-2.0-flash-lite"
)
