package generator

import (
	"charmapi/internal/core/domain"
	"context"
	"errors"
	"testing"

	"github.com/revrost/go-openrouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for the openRouterClient interface.
type mockClient struct {
	createChatCompletionFunc func(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error)
	createChatCompletionStreamFunc func(ctx context.Context,
		ccr openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionStream, error)
}

func (m *mockClient) CreateChatCompletion(ctx context.Context,
	ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error) {
	return m.createChatCompletionFunc(ctx, ccr)
}

func (m *mockClient) CreateChatCompletionStream(ctx context.Context,
	ccr openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionStream, error) {
	return m.createChatCompletionStreamFunc(ctx, ccr)
}

func TestOpenRouter_GenerateCompletion(t *testing.T) {
	testCases := []struct {
		name         string
		completion   domain.Completion
		mockResp     openrouter.ChatCompletionResponse
		mockErr      error
		expectedResp domain.CompletionResult
		expectErr    bool
	}{
		{
			name:       "success",
			completion: testCompletion(0.9),
			mockResp: openrouter.ChatCompletionResponse{
				Choices: []openrouter.ChatCompletionChoice{{
					Message: openrouter.ChatCompletionMessage{
						Content: openrouter.Content{Text: "hello!"},
					},
					FinishReason: "stop",
				}},
				Model: "openai/gpt-4o-mini",
				Usage: &openrouter.Usage{
					CompletionTokens: 7,
					TotalTokens:      9,
				},
			},
			expectedResp: domain.CompletionResult{
				Text:         "hello!",
				TotalTokens:  9,
				Model:        "openai/gpt-4o-mini",
				FinishReason: "stop",
			},
		},
		{
			name:       "no choices",
			completion: testCompletion(0.9),
			mockResp: openrouter.ChatCompletionResponse{
				Model: "openai/gpt-4o-mini",
			},
			expectedResp: domain.CompletionResult{
				Model: "openai/gpt-4o-mini",
			},
		},
		{
			name:       "usage omitted",
			completion: testCompletion(0.9),
			mockResp: openrouter.ChatCompletionResponse{
				Choices: []openrouter.ChatCompletionChoice{{
					Message: openrouter.ChatCompletionMessage{
						Content: openrouter.Content{Text: "hi"},
					},
					FinishReason: "length",
				}},
				Model: "openai/gpt-4o-mini",
			},
			expectedResp: domain.CompletionResult{
				Text:         "hi",
				Model:        "openai/gpt-4o-mini",
				FinishReason: "length",
			},
		},
		{
			name:       "API error returned",
			completion: testCompletion(0.9),
			mockErr:    errors.New("api failure"),
			expectErr:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var sent openrouter.ChatCompletionRequest
			mock := &mockClient{
				createChatCompletionFunc: func(_ context.Context,
					ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error) {
					sent = ccr
					return tc.mockResp, tc.mockErr
				},
			}
			gen := &OpenRouter{
				client: mock,
			}

			resp, err := gen.GenerateCompletion(t.Context(), tc.completion)
			if tc.expectErr {
				require.ErrorIs(t, err, domain.ErrUpstream)
				assert.Equal(t, "OpenRouter API error: api failure", err.Error())
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedResp, resp)

			assert.Equal(t, "gpt-4o-mini", sent.Model)
			assert.False(t, sent.Stream)
			require.Len(t, sent.Messages, 2)
			assert.Equal(t, "system", sent.Messages[0].Role)
			assert.Equal(t, "You are Luna.", sent.Messages[0].Content.Text)
			assert.InDelta(t, 0.6, sent.PresencePenalty, 1e-6)
			assert.InDelta(t, 0.3, sent.FrequencyPenalty, 1e-6)
		})
	}
}

func TestOpenRouter_GenerateCompletionZeroTemperature(t *testing.T) {
	var sent openrouter.ChatCompletionRequest
	gen := &OpenRouter{client: &mockClient{
		createChatCompletionFunc: func(_ context.Context,
			ccr openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error) {
			sent = ccr
			return openrouter.ChatCompletionResponse{}, nil
		},
	}}

	_, err := gen.GenerateCompletion(t.Context(), testCompletion(0))

	require.NoError(t, err)
	assert.Greater(t, sent.Temperature, float32(0))
}

func TestOpenRouter_StreamCompletion(t *testing.T) {
	var body map[string]any
	srv := sseServer(t, []string{"once", " upon", "", " a time"}, &body)
	defer srv.Close()

	var got []string
	err := NewOpenRouter("or-test", srv.URL).StreamCompletion(t.Context(), testCompletion(0.9),
		func(delta string) error {
			got = append(got, delta)
			return nil
		})

	require.NoError(t, err)
	assert.Equal(t, []string{"once", " upon", " a time"}, got)
	assert.Equal(t, true, body["stream"])
}

func TestOpenRouter_StreamCompletionOpenError(t *testing.T) {
	gen := &OpenRouter{client: &mockClient{
		createChatCompletionStreamFunc: func(context.Context,
			openrouter.ChatCompletionRequest) (*openrouter.ChatCompletionStream, error) {
			return nil, errors.New("connection refused")
		},
	}}

	err := gen.StreamCompletion(t.Context(), testCompletion(0.9), func(string) error {
		t.Fatal("no delta expected")
		return nil
	})

	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, "OpenRouter API error: connection refused", err.Error())
}

func TestOpenRouter_ContextCanceled(t *testing.T) {
	gen := &OpenRouter{client: &mockClient{
		createChatCompletionFunc: func(ctx context.Context,
			_ openrouter.ChatCompletionRequest) (openrouter.ChatCompletionResponse, error) {
			return openrouter.ChatCompletionResponse{}, ctx.Err()
		},
	}}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := gen.GenerateCompletion(ctx, testCompletion(0.9))

	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
}
