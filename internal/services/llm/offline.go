package llm

import (
	"context"
	"fmt"
)

// OfflineProvider is a deterministic no-network provider used in development
// and tests. It echoes a short canned assessment so callers exercise the
// full prompt/response path without spending model tokens.
type OfflineProvider struct{}

// NewOfflineProvider creates the offline provider.
func NewOfflineProvider() *OfflineProvider {
	return &OfflineProvider{}
}

// GenerateContent returns a canned deterministic response.
func (p *OfflineProvider) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if request == nil || request.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}
	return &ContentResponse{
		Text:     "Offline assessment: heuristic scores applied without model review.",
		Provider: ProviderOffline,
		Model:    "offline",
	}, nil
}

// GetProviderType returns the provider type.
func (p *OfflineProvider) GetProviderType() ProviderType {
	return ProviderOffline
}

// Close releases the provider.
func (p *OfflineProvider) Close() error {
	return nil
}
