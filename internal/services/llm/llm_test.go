package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/temirov/ask/internal/types"
)

type stubGenerator struct {
	response      *genai.GenerateContentResponse
	err           error
	receivedModel string
	receivedText  string
}

func (generator *stubGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	generator.receivedModel = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		generator.receivedText = contents[0].Parts[0].Text
	}
	return generator.response, generator.err
}

func candidateResponse(texts ...string) *genai.GenerateContentResponse {
	parts := make([]*genai.Part, 0, len(texts))
	for _, text := range texts {
		parts = append(parts, &genai.Part{Text: text})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: parts}}},
	}
}

func TestGeminiClientGenerate(t *testing.T) {
	t.Run("first_part_of_first_candidate", func(t *testing.T) {
		generator := &stubGenerator{response: candidateResponse("first", "second")}
		client := newGeminiClientWithGenerator(generator, "")

		response := client.Generate(context.Background(), "hello")

		require.True(t, response.Succeeded())
		assert.Equal(t, "first", response.Text)
		assert.Equal(t, types.DefaultGeminiModel, generator.receivedModel)
		assert.Equal(t, "hello", generator.receivedText)
	})

	t.Run("no_candidates", func(t *testing.T) {
		client := newGeminiClientWithGenerator(&stubGenerator{response: &genai.GenerateContentResponse{}}, "custom")

		response := client.Generate(context.Background(), "hello")

		require.False(t, response.Succeeded())
		assert.Equal(t, FailureReasonEmpty, response.Failure.Reason)
		assert.ErrorIs(t, response.Failure, ErrEmptyResponse)
	})

	t.Run("transport_error", func(t *testing.T) {
		transportError := errors.New("connection refused")
		client := newGeminiClientWithGenerator(&stubGenerator{err: transportError}, "custom")

		response := client.Generate(context.Background(), "hello")

		require.False(t, response.Succeeded())
		assert.Equal(t, FailureReasonTransport, response.Failure.Reason)
		assert.ErrorIs(t, response.Failure, transportError)
	})
}

func TestOpenAIClientGenerate(t *testing.T) {
	t.Run("first_choice", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/chat/completions", request.URL.Path)
			assert.Equal(t, "Bearer secret", request.Header.Get("Authorization"))
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[{"index":0,"message":{"role":"assistant","content":"reply"},"finish_reason":"stop"}]}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(Settings{Provider: types.ProviderOpenAI, APIKey: "secret", BaseURL: server.URL, Model: "m"})
		response := client.Generate(context.Background(), "question")

		require.True(t, response.Succeeded())
		assert.Equal(t, "reply", response.Text)
	})

	t.Run("empty_choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			_, _ = writer.Write([]byte(`{"id":"1","object":"chat.completion","model":"m","choices":[]}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(Settings{APIKey: "secret", BaseURL: server.URL})
		response := client.Generate(context.Background(), "question")

		require.False(t, response.Succeeded())
		assert.Equal(t, FailureReasonEmpty, response.Failure.Reason)
	})

	t.Run("authentication_error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(http.StatusUnauthorized)
			_, _ = writer.Write([]byte(`{"error":{"message":"invalid key","type":"invalid_request_error"}}`))
		}))
		defer server.Close()

		client := NewOpenAIClient(Settings{APIKey: "wrong", BaseURL: server.URL})
		response := client.Generate(context.Background(), "question")

		require.False(t, response.Succeeded())
		assert.Equal(t, FailureReasonTransport, response.Failure.Reason)
	})
}

func TestNewClient(t *testing.T) {
	t.Run("unknown_provider", func(t *testing.T) {
		_, err := NewClient(context.Background(), Settings{Provider: "llama", APIKey: "k"})
		require.Error(t, err)
	})

	t.Run("missing_key_fails_on_generate", func(t *testing.T) {
		client, err := NewClient(context.Background(), Settings{Provider: types.ProviderGemini})
		require.NoError(t, err)

		response := client.Generate(context.Background(), "hello")

		require.False(t, response.Succeeded())
		assert.Equal(t, FailureReasonConfiguration, response.Failure.Reason)
		assert.ErrorIs(t, response.Failure, ErrMissingAPIKey)
	})

	t.Run("openai_provider", func(t *testing.T) {
		client, err := NewClient(context.Background(), Settings{Provider: "OpenAI", APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIClient{}, client)
	})

	t.Run("gemini_is_default", func(t *testing.T) {
		client, err := NewClient(context.Background(), Settings{APIKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &GeminiClient{}, client)
	})
}
