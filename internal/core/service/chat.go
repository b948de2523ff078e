package service

import (
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const unknownFinishReason = "unknown"

type ChatService struct {
	credentials  port.Credentials
	newGenerator port.ChatGeneratorFactory
	model        string
	timeout      time.Duration
}

func NewChatService(credentials port.Credentials, newGenerator port.ChatGeneratorFactory,
	model string, timeout time.Duration) *ChatService {
	return &ChatService{
		credentials:  credentials,
		newGenerator: newGenerator,
		model:        model,
		timeout:      timeout,
	}
}

// Complete answers the conversation with a single completion from the chat provider.
func (s *ChatService) Complete(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	apiKey, err := s.credentials.ChatAPIKey()
	if err != nil {
		return domain.ChatResponse{}, err
	}

	persona := domain.DerivePersona(req)

	l := zerolog.Ctx(ctx).With().
		Str("model", s.model).
		Int("messages", len(req.Messages)).
		Bool("character", persona.HasName).
		Logger()

	l.Debug().Msg("requesting chat completion")

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := s.newGenerator(apiKey).GenerateCompletion(ctx, s.completion(req, persona))
	if err != nil {
		l.Error().Err(err).Msg("chat completion failed")
		return domain.ChatResponse{}, fmt.Errorf("chat completion failed: %w", err)
	}

	finishReason := result.FinishReason
	if finishReason == "" {
		finishReason = unknownFinishReason
	}

	l.Debug().Int("tokens", result.TotalTokens).Str("finishReason", finishReason).Msg("chat completion received")

	return domain.ChatResponse{
		Message:       result.Text,
		TokensUsed:    result.TotalTokens,
		Model:         result.Model,
		FinishReason:  finishReason,
		CharacterName: persona.NamePtr(),
	}, nil
}

// ChatStream is a prepared streaming completion. Nothing has been sent upstream until Forward is called.
type ChatStream struct {
	generator  port.ChatGenerator
	completion domain.Completion
	timeout    time.Duration
}

// OpenStream resolves credentials and the conversation for a streaming completion. Errors returned here
// happen before any byte of the stream is written.
func (s *ChatService) OpenStream(_ context.Context, req domain.ChatRequest) (*ChatStream, error) {
	apiKey, err := s.credentials.ChatAPIKey()
	if err != nil {
		return nil, err
	}

	return &ChatStream{
		generator:  s.newGenerator(apiKey),
		completion: s.completion(req, domain.DerivePersona(req)),
		timeout:    s.timeout,
	}, nil
}

// Forward runs the upstream call and passes each text delta to onDelta before awaiting the next one.
func (cs *ChatStream) Forward(ctx context.Context, onDelta func(delta string) error) error {
	ctx, cancel := context.WithTimeout(ctx, cs.timeout)
	defer cancel()

	deltas := 0
	err := cs.generator.StreamCompletion(ctx, cs.completion, func(delta string) error {
		deltas++
		return onDelta(delta)
	})

	zerolog.Ctx(ctx).Debug().Int("deltas", deltas).Err(err).Msg("chat stream finished")

	return err
}

func (s *ChatService) completion(req domain.ChatRequest, persona domain.Persona) domain.Completion {
	return domain.Completion{
		Model:            s.model,
		Messages:         domain.ConversationMessages(persona.SystemPrompt, req.Messages),
		MaxTokens:        req.MaxTokens,
		Temperature:      req.Temperature,
		PresencePenalty:  domain.DefaultPresencePenalty,
		FrequencyPenalty: domain.DefaultFrequencyPenalty,
	}
}
