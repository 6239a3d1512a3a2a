package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/hammywammy/oslira-workers/internal/common"
)

// GeminiService implements the Provider interface using the Google Gemini API.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService creates a new Gemini provider instance.
func NewGeminiService(ctx context.Context, config *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or gemini.api_key in config)")
	}

	if config.Model == "" {
		config.Model = "gemini-3-flash-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		client:  client,
		timeout: common.ParseDuration(config.Timeout, 2*time.Minute),
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", service.timeout).
		Msg("Gemini provider initialized")

	return service, nil
}

// GenerateContent generates a completion for the given request.
func (s *GeminiService) GenerateContent(ctx context.Context, request *ContentRequest) (*ContentResponse, error) {
	if request == nil || request.Prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	temperature := request.Temperature
	if temperature == 0 {
		temperature = s.config.Temperature
	}
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if request.System != "" {
		config.SystemInstruction = genai.NewContentFromText(request.System, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(request.Prompt, genai.RoleUser),
	}

	start := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		s.logger.Warn().Err(err).Str("model", s.config.Model).Msg("Gemini API call failed")
		return nil, classifyProviderError(err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return nil, classifyProviderError(fmt.Errorf("no response generated from Gemini API"))
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Int("response_length", text.Len()).
		Dur("duration", time.Since(start)).
		Msg("Gemini completion finished")

	return &ContentResponse{
		Text:     text.String(),
		Provider: ProviderGemini,
		Model:    s.config.Model,
	}, nil
}

// GetProviderType returns the provider type.
func (s *GeminiService) GetProviderType() ProviderType {
	return ProviderGemini
}

// Close releases the provider. The genai client needs no explicit cleanup.
func (s *GeminiService) Close() error {
	s.client = nil
	return nil
}
