package handler

import (
	"bytes"
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"charmapi/internal/core/service"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockCredentials struct {
	chatKey    string
	imageToken string
}

func (m *MockCredentials) ChatAPIKey() (string, error) {
	if m.chatKey == "" {
		return "", &domain.ConfigError{
			Message: "OpenAI API key not configured. Set OPENAI_API_KEY environment variable.",
		}
	}
	return m.chatKey, nil
}

func (m *MockCredentials) ImageAPIToken() (string, error) {
	if m.imageToken == "" {
		return "", &domain.ConfigError{
			Message: "Replicate API token not configured. Set REPLICATE_API_TOKEN environment variable.",
		}
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

type testServer struct {
	router   *gin.Engine
	chatGen  *MockChatGenerator
	imageGen *MockImageGenerator
}

func newTestServer(t *testing.T, creds *MockCredentials) *testServer {
	t.Helper()

	catalog, err := domain.NewImageCatalog(domain.DefaultImageModels(), nil, domain.DefaultImageModel)
	require.NoError(t, err)

	ts := &testServer{
		chatGen:  &MockChatGenerator{},
		imageGen: &MockImageGenerator{},
	}

	chatService := service.NewChatService(creds, func(string) port.ChatGenerator { return ts.chatGen },
		domain.DefaultChatModel, time.Minute)
	imageService := service.NewImageService(creds, func(string) port.ImageGenerator { return ts.imageGen },
		catalog, time.Minute)

	ts.router = NewRouter(NewChat(chatService), NewImage(imageService))

	return ts
}

func (ts *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		payload, _ := json.Marshal(b)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()

	var resp domain.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, w.Code, resp.StatusCode)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	require.NoError(t, err)
	return resp
}
