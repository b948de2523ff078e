package service

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
)

type ImageService struct {
	credentials  port.Credentials
	newGenerator port.ImageGeneratorFactory
	catalog      *domain.ImageCatalog
	timeout      time.Duration
	now          func() time.Time
}

func NewImageService(credentials port.Credentials, newGenerator port.ImageGeneratorFactory,
	catalog *domain.ImageCatalog, timeout time.Duration) *ImageService {
	return &ImageService{
		credentials:  credentials,
		newGenerator: newGenerator,
		catalog:      catalog,
		timeout:      timeout,
		now:          time.Now,
	}
}

// Models lists the image models clients may request.
func (s *ImageService) Models() []domain.ImageModel {
	return s.catalog.Models()
}

// Generate runs an image generation and waits for the result.
func (s *ImageService) Generate(ctx context.Context, req domain.ImageGenerationRequest) (
	domain.ImageGenerationResponse, error) {
	apiToken, err := s.credentials.ImageAPIToken()
	if err != nil {
		return domain.ImageGenerationResponse{}, err
	}

	start := s.now()

	model := s.catalog.Resolve(req.Model)
	input := domain.BuildRunInput(req, model.Family)

	l := zerolog.Ctx(ctx).With().
		Str("model", model.Key).
		Str("identifier", model.Identifier).
		Int("outputs", input.NumOutputs).
		Logger()

	l.Info().Msg("running image generation")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	output, err := s.newGenerator(apiToken).Run(ctx, model.Identifier, input)
	if err != nil {
		l.Error().Err(err).Msg("image generation failed")
		return domain.ImageGenerationResponse{}, fmt.Errorf("image generation failed: %w", err)
	}

	elapsed := roundSeconds(s.now().Sub(start))
	l.Info().Float64("seconds", elapsed).Int("images", len(output.List())).Msg("image generation finished")

	return domain.ImageGenerationResponse{
		Images:         output.List(),
		GenerationTime: elapsed,
		Model:          req.Model,
		Prompt:         req.Prompt,
	}, nil
}

// Submit starts an image generation without waiting for it to finish.
func (s *ImageService) Submit(ctx context.Context, req domain.ImageGenerationRequest) (
	domain.AsyncGenerationResponse, error) {
	apiToken, err := s.credentials.ImageAPIToken()
	if err != nil {
		return domain.AsyncGenerationResponse{}, err
	}

	model := s.catalog.Resolve(req.Model)
	input := domain.BuildSubmitInput(req, model.Family)
	generator := s.newGenerator(apiToken)

	l := zerolog.Ctx(ctx).With().
		Str("model", model.Key).
		Str("identifier", model.Identifier).
		Logger()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	name, version := domain.SplitIdentifier(model.Identifier)
	if version == "" {
		version, err = generator.LatestVersion(ctx, name)
		if err != nil {
			l.Error().Err(err).Msg("failed to resolve model version")
			return domain.AsyncGenerationResponse{}, fmt.Errorf("resolving version of %s: %w", name, err)
		}
	}

	prediction, err := generator.CreatePrediction(ctx, version, input)
	if err != nil {
		l.Error().Err(err).Str("version", version).Msg("failed to create prediction")
		return domain.AsyncGenerationResponse{}, fmt.Errorf("creating prediction: %w", err)
	}

	l.Info().Str("prediction", prediction.ID).Str("status", string(prediction.Status)).Msg("prediction submitted")

	return domain.AsyncGenerationResponse{
		PredictionID: prediction.ID,
		Status:       string(prediction.Status),
		Model:        req.Model,
	}, nil
}

// Status reports the current state of a submitted prediction.
func (s *ImageService) Status(ctx context.Context, predictionID string) (domain.GenerationStatusResponse, error) {
	apiToken, err := s.credentials.ImageAPIToken()
	if err != nil {
		return domain.GenerationStatusResponse{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prediction, err := s.newGenerator(apiToken).GetPrediction(ctx, predictionID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("prediction", predictionID).Msg("failed to fetch prediction")
		return domain.GenerationStatusResponse{}, fmt.Errorf("fetching prediction %s: %w", predictionID, err)
	}

	resp := domain.GenerationStatusResponse{
		ID:     prediction.ID,
		Status: string(prediction.Status),
		Output: prediction.Output.Optional(),
	}

	if prediction.Error != "" {
		msg := prediction.Error
		resp.Error = &msg
	}

	return resp, nil
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
