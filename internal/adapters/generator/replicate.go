package generator

import (
	"bytes"
	"charmapi/internal/core/domain"
	"charmapi/internal/core/port"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const replicateProvider = "Replicate"

// Replicate provides a wrapper for the Replicate predictions API.
type Replicate struct {
	apiToken     string
	baseURL      string
	pollInterval time.Duration
	client       *http.Client
}

func NewReplicate(apiToken, baseURL string, pollInterval time.Duration) *Replicate {
	return &Replicate{
		apiToken:     apiToken,
		baseURL:      strings.TrimRight(baseURL, "/"),
		pollInterval: pollInterval,
		client:       &http.Client{},
	}
}

// ReplicateFactory returns a factory building one client per request.
func ReplicateFactory(baseURL string, pollInterval time.Duration) port.ImageGeneratorFactory {
	return func(apiToken string) port.ImageGenerator {
		return NewReplicate(apiToken, baseURL, pollInterval)
	}
}

type predictionRequest struct {
	Version string            `json:"version,omitempty"`
	Input   domain.ImageInput `json:"input"`
}

type predictionResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
}

type modelResponse struct {
	LatestVersion *struct {
		ID string `json:"id"`
	} `json:"latest_version"`
}

type replicateErrorResponse struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// Run creates a prediction and polls it until it succeeds, fails or is canceled.
func (r *Replicate) Run(ctx context.Context, identifier string, input domain.ImageInput) (domain.ImageOutput, error) {
	model, version := domain.SplitIdentifier(identifier)

	var (
		prediction domain.Prediction
		err        error
	)
	if version != "" {
		prediction, err = r.create(ctx, "/predictions", predictionRequest{Version: version, Input: input}, true)
	} else {
		prediction, err = r.create(ctx, "/models/"+model+"/predictions", predictionRequest{Input: input}, true)
	}
	if err != nil {
		return domain.ImageOutput{}, err
	}

	l := zerolog.Ctx(ctx).With().Str("prediction", prediction.ID).Logger()

	for !prediction.Status.Terminal() {
		if !prediction.Status.Known() {
			return domain.ImageOutput{}, domain.NewProviderError(replicateProvider, 0,
				"unexpected prediction status %q", prediction.Status)
		}

		l.Debug().Str("status", string(prediction.Status)).Msg("waiting for prediction")

		select {
		case <-ctx.Done():
			return domain.ImageOutput{}, ctx.Err()
		case <-time.After(r.pollInterval):
		}

		prediction, err = r.GetPrediction(ctx, prediction.ID)
		if err != nil {
			return domain.ImageOutput{}, err
		}
	}

	switch prediction.Status {
	case domain.StatusFailed, domain.StatusCanceled:
		msg := prediction.Error
		if msg == "" {
			msg = "prediction " + string(prediction.Status)
		}
		return domain.ImageOutput{}, domain.NewProviderError(replicateProvider, 0, "%s", msg)
	}

	return prediction.Output, nil
}

func (r *Replicate) LatestVersion(ctx context.Context, model string) (string, error) {
	body, err := r.do(ctx, http.MethodGet, "/models/"+model, nil, false)
	if err != nil {
		return "", err
	}

	var result modelResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error unmarshalling Replicate model response: %w", err)
	}

	if result.LatestVersion == nil || result.LatestVersion.ID == "" {
		return "", domain.NewProviderError(replicateProvider, 0, "model %s has no published version", model)
	}

	return result.LatestVersion.ID, nil
}

func (r *Replicate) CreatePrediction(ctx context.Context, version string,
	input domain.ImageInput) (domain.Prediction, error) {
	return r.create(ctx, "/predictions", predictionRequest{Version: version, Input: input}, false)
}

func (r *Replicate) GetPrediction(ctx context.Context, id string) (domain.Prediction, error) {
	body, err := r.do(ctx, http.MethodGet, "/predictions/"+url.PathEscape(id), nil, false)
	if err != nil {
		return domain.Prediction{}, err
	}

	return decodePrediction(body)
}

func (r *Replicate) create(ctx context.Context, path string, payload predictionRequest,
	wait bool) (domain.Prediction, error) {
	payloadBuf := new(bytes.Buffer)
	if err := json.NewEncoder(payloadBuf).Encode(payload); err != nil {
		return domain.Prediction{}, fmt.Errorf("error encoding Replicate request: %w", err)
	}

	body, err := r.do(ctx, http.MethodPost, path, payloadBuf, wait)
	if err != nil {
		return domain.Prediction{}, err
	}

	return decodePrediction(body)
}

func (r *Replicate) do(ctx context.Context, method, path string, payload io.Reader, wait bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("error creating Replicate request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+r.apiToken)
	req.Header.Add("Content-Type", "application/json")
	if wait {
		req.Header.Add("Prefer", "wait")
	}

	res, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, domain.NewProviderError(replicateProvider, 0, "%s", err.Error())
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading Replicate response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, replicateError(res.StatusCode, body)
	}

	return body, nil
}

func replicateError(status int, body []byte) error {
	var payload replicateErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return domain.NewProviderError(replicateProvider, status, "%s", payload.Detail)
		case payload.Title != "":
			return domain.NewProviderError(replicateProvider, status, "%s", payload.Title)
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" {
		return domain.NewProviderError(replicateProvider, status, "%s", text)
	}

	return domain.NewProviderError(replicateProvider, status, "%s", http.StatusText(status))
}

func decodePrediction(body []byte) (domain.Prediction, error) {
	var result predictionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.Prediction{}, fmt.Errorf("error unmarshalling Replicate prediction: %w", err)
	}

	output, err := decodeOutput(result.Output)
	if err != nil {
		return domain.Prediction{}, err
	}

	return domain.Prediction{
		ID:     result.ID,
		Status: domain.PredictionStatus(result.Status),
		Output: output,
		Error:  decodeErrorField(result.Error),
	}, nil
}

// decodeOutput classifies the output field: absent or null, a single URL, or a list of URLs.
func decodeOutput(raw json.RawMessage) (domain.ImageOutput, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.NoOutput(), nil
	}

	switch trimmed[0] {
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return domain.ImageOutput{}, fmt.Errorf("error unmarshalling Replicate output: %w", err)
		}
		return domain.SingleOutput(single), nil
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return domain.ImageOutput{}, fmt.Errorf("error unmarshalling Replicate output: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		return domain.ListOutput(list), nil
	}

	return domain.ImageOutput{}, fmt.Errorf("unexpected Replicate output: %s", trimmed)
}

func decodeErrorField(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var msg string
	if err := json.Unmarshal(trimmed, &msg); err == nil {
		return msg
	}

	return string(trimmed)
}
