package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/temirov/ask/internal/types"
)

// chatCompleter is the subset of *openai.Client used by OpenAIClient.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient generates text through an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	completer chatCompleter
	model     string
}

// NewOpenAIClient creates a client for settings.Model, honoring settings.BaseURL when set.
func NewOpenAIClient(settings Settings) *OpenAIClient {
	clientConfig := openai.DefaultConfig(settings.APIKey)
	if settings.BaseURL != "" {
		clientConfig.BaseURL = settings.BaseURL
	}
	model := settings.Model
	if model == "" {
		model = types.DefaultOpenAIModel
	}
	return &OpenAIClient{completer: openai.NewClientWithConfig(clientConfig), model: model}
}

// Generate sends prompt as a single user message and returns the first choice's content.
func (client *OpenAIClient) Generate(ctx context.Context, prompt string) Response {
	completion, err := client.completer.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: client.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return Failed(FailureReasonTransport, fmt.Errorf("chat completion failed: %w", err))
	}
	if len(completion.Choices) == 0 {
		return Failed(FailureReasonEmpty, ErrEmptyResponse)
	}
	return Success(completion.Choices[0].Message.Content)
}
