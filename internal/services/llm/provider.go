package llm

import (
	"context"
	"strings"

	"github.com/hammywammy/oslira-workers/internal/services/batch"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderOffline uses deterministic heuristics, no model calls
	ProviderOffline ProviderType = "offline"
)

// ContentRequest is a provider-agnostic content generation request.
type ContentRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// ContentResponse is a provider-agnostic content generation response.
type ContentResponse struct {
	Text     string
	Provider ProviderType
	Model    string
}

// Provider defines the interface for AI content generation
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error)
	GetProviderType() ProviderType
	Close() error
}

// classifyProviderError maps model API failures to batch error kinds at the
// boundary: auth problems are terminal, quota and availability are transient.
func classifyProviderError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "authentication") || strings.Contains(msg, "invalid x-api-key"):
		return batch.WrapError(batch.KindUnauthorized, err, "model API rejected credentials")
	case strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED") || strings.Contains(msg, "quota"):
		return batch.WrapError(batch.KindTransient, err, "model API rate limit")
	default:
		return batch.WrapError(batch.KindTransient, err, "model API call failed")
	}
}
