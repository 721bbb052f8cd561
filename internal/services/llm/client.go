// Package llm sends one prompt to a remote generative model and returns its reply.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/ask/internal/types"
)

const (
	errorUnsupportedProviderFormat = "unsupported provider %q"
)

// ErrMissingAPIKey is reported when no API key was configured for the selected provider.
var ErrMissingAPIKey = errors.New("API key is not configured")

// Client submits a prompt and returns the model reply. Implementations never
// return transport errors directly; they are carried inside Response.
type Client interface {
	Generate(ctx context.Context, prompt string) Response
}

// Settings selects and configures a provider.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewClient builds the client for settings.Provider. An unknown provider is an error;
// a missing API key yields a client whose every generation fails with FailureReasonConfiguration.
func NewClient(ctx context.Context, settings Settings) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(settings.Provider))
	if provider == "" {
		provider = types.ProviderGemini
	}
	switch provider {
	case types.ProviderGemini, types.ProviderOpenAI:
	default:
		return nil, fmt.Errorf(errorUnsupportedProviderFormat, settings.Provider)
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		return misconfiguredClient{cause: ErrMissingAPIKey}, nil
	}
	if provider == types.ProviderOpenAI {
		return NewOpenAIClient(settings), nil
	}
	geminiClient, geminiError := NewGeminiClient(ctx, settings)
	if geminiError != nil {
		return misconfiguredClient{cause: geminiError}, nil
	}
	return geminiClient, nil
}

type misconfiguredClient struct {
	cause error
}

func (client misconfiguredClient) Generate(context.Context, string) Response {
	return Failed(FailureReasonConfiguration, client.cause)
}
