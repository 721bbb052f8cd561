package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/temirov/ask/internal/types"
)

// contentGenerator is the subset of *genai.Models used by GeminiClient.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient generates text through the Gemini API.
type GeminiClient struct {
	models contentGenerator
	model  string
}

// NewGeminiClient creates a Gemini API client for settings.Model.
func NewGeminiClient(ctx context.Context, settings Settings) (*GeminiClient, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: settings.BaseURL}
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newGeminiClientWithGenerator(client.Models, settings.Model), nil
}

func newGeminiClientWithGenerator(models contentGenerator, model string) *GeminiClient {
	if model == "" {
		model = types.DefaultGeminiModel
	}
	return &GeminiClient{models: models, model: model}
}

// Generate sends prompt as a single user turn and returns the first candidate's first text part.
func (client *GeminiClient) Generate(ctx context.Context, prompt string) Response {
	result, err := client.models.GenerateContent(ctx, client.model, genai.Text(prompt), nil)
	if err != nil {
		return Failed(FailureReasonTransport, fmt.Errorf("GenAI generate failed: %w", err))
	}
	text, found := firstCandidateText(result)
	if !found {
		return Failed(FailureReasonEmpty, ErrEmptyResponse)
	}
	return Success(text)
}

func firstCandidateText(result *genai.GenerateContentResponse) (string, bool) {
	if result == nil || len(result.Candidates) == 0 {
		return "", false
	}
	candidate := result.Candidates[0]
	if candidate == nil || candidate.Content == nil || len(candidate.Content.Parts) == 0 || candidate.Content.Parts[0] == nil {
		return "", false
	}
	return candidate.Content.Parts[0].Text, true
}
