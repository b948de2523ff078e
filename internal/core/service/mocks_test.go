package service

import (
	"charmapi/internal/core/domain"
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCredentials struct {
	chatKey    string
	imageToken string
}

func (m *MockCredentials) ChatAPIKey() (string, error) {
	if m.chatKey == "" {
		return "", &domain.ConfigError{Message: "OpenAI API key not configured."}
	}
	return m.chatKey, nil
}

func (m *MockCredentials) ImageAPIToken() (string, error) {
	if m.imageToken == "" {
		return "", &domain.ConfigError{Message: "Replicate API token not configured."}
	}
	return m.imageToken, nil
}

type MockChatGenerator struct {
	mock.Mock
}

func (m *MockChatGenerator) GenerateCompletion(ctx context.Context,
	completion domain.Completion) (domain.CompletionResult, error) {
	args := m.Called(ctx, completion)
	result, _ := args.Get(0).(domain.CompletionResult)
	return result, args.Error(1)
}

func (m *MockChatGenerator) StreamCompletion(ctx context.Context, completion domain.Completion,
	onDelta func(delta string) error) error {
	args := m.Called(ctx, completion, onDelta)
	if deltas, ok := args.Get(0).([]string); ok {
		for _, d := range deltas {
			if err := onDelta(d); err != nil {
				return err
			}
		}
	}
	return args.Error(1)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) Run(ctx context.Context, identifier string,
	input domain.ImageInput) (domain.ImageOutput, error) {
	args := m.Called(ctx, identifier, input)
	output, _ := args.Get(0).(domain.ImageOutput)
	return output, args.Error(1)
}

func (m *MockImageGenerator) LatestVersion(ctx context.Context, model string) (string, error) {
	args := m.Called(ctx, model)
	return args.String(0), args.Error(1)
}

func (m *MockImageGenerator) CreatePrediction(ctx context.Context, version string,
	input domain.ImageInput) (domain.Prediction, error) {
	args := m.Called(ctx, version, input)
	prediction, _ := args.Get(0).(domain.Prediction)
	return prediction, args.Error(1)
}

func (m *MockImageGenerator) GetPrediction(ctx context.Context, id string) (domain.Prediction, error) {
	args := m.Called(ctx, id)
	prediction, _ := args.Get(0).(domain.Prediction)
	return prediction, args.Error(1)
}
