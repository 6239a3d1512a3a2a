package llm

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/hammywammy/oslira-workers/internal/common"
)

// NewProvider creates the configured scoring provider. Unknown providers are
// a configuration error; config validation should have caught them earlier.
func NewProvider(ctx context.Context, config *common.Config, logger arbor.ILogger) (Provider, error) {
	switch ProviderType(config.LLM.Provider) {
	case ProviderClaude:
		return NewClaudeService(&config.Claude, logger)
	case ProviderGemini:
		return NewGeminiService(ctx, &config.Gemini, logger)
	case ProviderOffline, "":
		return NewOfflineProvider(), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", config.LLM.Provider)
	}
}
