package handler

import (
	"charmapi/internal/core/domain"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Prefixes for failures that are neither configuration nor provider errors.
const (
	prefixInternal        = "Internal server error"
	prefixStreamStart     = "Failed to start stream"
	prefixImageGeneration = "Image generation failed"
	prefixSubmit          = "Failed to start generation"
	prefixStatus          = "Failed to get status"
)

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, domain.ErrorResponse{
		Error:      msg,
		StatusCode: status,
		Timestamp:  timestamp(),
	})
}

// respondError maps err onto the error envelope: configuration errors and unclassified failures are 500,
// provider failures are 502.
func respondError(c *gin.Context, err error, prefix string) {
	l := zerolog.Ctx(c.Request.Context())

	var (
		cfgErr      *domain.ConfigError
		providerErr *domain.ProviderError
	)

	switch {
	case errors.As(err, &cfgErr):
		l.Error().Err(err).Msg("service is not configured")
		abortWithError(c, http.StatusInternalServerError, cfgErr.Error())
	case errors.As(err, &providerErr):
		l.Warn().Err(err).Int("upstreamStatus", providerErr.Status).Msg("upstream provider failed")
		abortWithError(c, http.StatusBadGateway, providerErr.Error())
	default:
		l.Error().Err(err).Msg("request failed")
		abortWithError(c, http.StatusInternalServerError, fmt.Sprintf("%s: %s", prefix, err.Error()))
	}
}

func respondInvalid(c *gin.Context, err error) {
	err = fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected request body")
	abortWithError(c, http.StatusUnprocessableEntity, err.Error())
}
