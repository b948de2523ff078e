package generator

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"context"
	"errors"
	"io"
	"math"

	"github.com/sashabaranov/go-openai"
)

const openAIProvider = "OpenAI"

type OpenAI struct {
	client *openai.Client
}

func NewOpenAI(apiKey, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAI{client: openai.NewClientWithConfig(cfg)}
}

// OpenAIFactory returns a factory building one client per request against baseURL.
func OpenAIFactory(baseURL string) port.ChatGeneratorFactory {
	return func(apiKey string) port.ChatGenerator {
		return NewOpenAI(apiKey, baseURL)
	}
}

func (o *OpenAI) GenerateCompletion(ctx context.Context,
	completion domain.Completion) (domain.CompletionResult, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openAIRequest(completion, false))
	if err != nil {
		return domain.CompletionResult{}, openAIError(err)
	}

	result := domain.CompletionResult{
		TotalTokens: resp.Usage.TotalTokens,
		Model:       resp.Model,
	}
	if len(resp.Choices) > 0 {
		result.Text = resp.Choices[0].Message.Content
		result.FinishReason = string(resp.Choices[0].FinishReason)
	}

	return result, nil
}

func (o *OpenAI) StreamCompletion(ctx context.Context, completion domain.Completion,
	onDelta func(delta string) error) error {
	stream, err := o.client.CreateChatCompletionStream(ctx, openAIRequest(completion, true))
	if err != nil {
		return openAIError(err)
	}
	defer stream.Close()

	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return openAIError(err)
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

func openAIRequest(completion domain.Completion, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(completion.Messages))
	for i, m := range completion.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	return openai.ChatCompletionRequest{
		Model:            completion.Model,
		Messages:         messages,
		MaxTokens:        completion.MaxTokens,
		Temperature:      nonZeroTemperature(completion.Temperature),
		PresencePenalty:  completion.PresencePenalty,
		FrequencyPenalty: completion.FrequencyPenalty,
		Stream:           stream,
	}
}

// nonZeroTemperature keeps a requested temperature of 0 on the wire; both client libraries omit zero values.
func nonZeroTemperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func openAIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return domain.NewProviderError(openAIProvider, apiErr.HTTPStatusCode, "%s", apiErr.Message)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return domain.NewProviderError(openAIProvider, reqErr.HTTPStatusCode, "%s", reqErr.Error())
	}

	return domain.NewProviderError(openAIProvider, 0, "%s", err.Error())
}
