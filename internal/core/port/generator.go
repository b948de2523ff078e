package port

import (
	"charmapi/internal/core/domain"
	"context"
)

type ChatGenerator interface {
	// GenerateCompletion runs a single non-streaming completion.
	GenerateCompletion(ctx context.Context, completion domain.Completion) (domain.CompletionResult, error)
	// StreamCompletion runs a streaming completion and calls onDelta with every non-empty text delta, in order.
	// It returns the first error from the provider or from onDelta.
	StreamCompletion(ctx context.Context, completion domain.Completion, onDelta func(delta string) error) error
}

type ImageGenerator interface {
	// Run creates a prediction for the model identifier and blocks until it reaches a terminal state.
	Run(ctx context.Context, identifier string, input domain.ImageInput) (domain.ImageOutput, error)
	// LatestVersion returns the latest version id of an "owner/name" model.
	LatestVersion(ctx context.Context, model string) (string, error)
	// CreatePrediction submits a prediction against a model version without waiting for it.
	CreatePrediction(ctx context.Context, version string, input domain.ImageInput) (domain.Prediction, error)
	// GetPrediction fetches the current state of a prediction.
	GetPrediction(ctx context.Context, id string) (domain.Prediction, error)
}

// ChatGeneratorFactory builds a chat provider client for a single request.
type ChatGeneratorFactory func(apiKey string) ChatGenerator

// ImageGeneratorFactory builds an image provider client for a single request.
type ImageGeneratorFactory func(apiToken string) ImageGenerator
