package domain

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrUpstream       = errors.New("upstream provider error")
	ErrInvalidRequest = errors.New("invalid request")
)

// ConfigError reports a configuration problem detected while serving a request.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ProviderError carries the failure text reported by an upstream provider.
type ProviderError struct {
	Provider string
	Message  string
	Status   int
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrUpstream
}

func NewProviderError(provider string, status int, format string, args ...any) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Status:   status,
		Message:  fmt.Sprintf(format, args...),
	}
}
