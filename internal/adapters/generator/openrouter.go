package generator

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"context"
	"errors"
	"io"

	"github.com/revrost/go-openrouter"
)

const openRouterProvider = "OpenRouter"

type openRouterClient interface {
	CreateChatCompletion(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionStream, error)
}

type OpenRouter struct {
	client openRouterClient
}

func NewOpenRouter(apiKey, baseURL string) *OpenRouter {
	cfg := openrouter.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	openrouter.WithXTitle(domain.ServiceName)(cfg)

	return &OpenRouter{client: openrouter.NewClientWithConfig(*cfg)}
}

// OpenRouterFactory returns a factory building one client per request against baseURL.
func OpenRouterFactory(baseURL string) port.ChatGeneratorFactory {
	return func(apiKey string) port.ChatGenerator {
		return NewOpenRouter(apiKey, baseURL)
	}
}

func (c *OpenRouter) GenerateCompletion(ctx context.Context,
	completion domain.Completion) (domain.CompletionResult, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openRouterRequest(completion, false))
	if err != nil {
		return domain.CompletionResult{}, openRouterError(err)
	}

	result := domain.CompletionResult{Model: resp.Model}
	if resp.Usage != nil {
		result.TotalTokens = resp.Usage.TotalTokens
	}
	if len(resp.Choices) > 0 {
		result.Text = resp.Choices[0].Message.Content.Text
		result.FinishReason = string(resp.Choices[0].FinishReason)
	}

	return result, nil
}

func (c *OpenRouter) StreamCompletion(ctx context.Context, completion domain.Completion,
	onDelta func(delta string) error) error {
	stream, err := c.client.CreateChatCompletionStream(ctx, openRouterRequest(completion, true))
	if err != nil {
		return openRouterError(err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return openRouterError(err)
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				return err
			}
		}
	}
}

func openRouterRequest(completion domain.Completion, stream bool) openrouter.ChatCompletionRequest {
	messages := make([]openrouter.ChatCompletionMessage, len(completion.Messages))
	for i, m := range completion.Messages {
		messages[i] = openrouter.ChatCompletionMessage{
			Role: string(m.Role),
			Content: openrouter.Content{
				Text: m.Content,
			},
		}
	}

	return openrouter.ChatCompletionRequest{
		Model:            completion.Model,
		Messages:         messages,
		MaxTokens:        completion.MaxTokens,
		Temperature:      nonZeroTemperature(completion.Temperature),
		PresencePenalty:  completion.PresencePenalty,
		FrequencyPenalty: completion.FrequencyPenalty,
		Stream:           stream,
	}
}

func openRouterError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openrouter.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(openRouterProvider, apiErr.HTTPStatusCode, "%s", apiErr.Message)
	}

	return domain.NewProviderError(openRouterProvider, 0, "%s", err.Error())
}
