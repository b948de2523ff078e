package domain

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)

type ChatMessage struct {
	Role    Role   `json:"role" binding:"required,oneof=user assistant system"`
	Content string `json:"content"`
}

// CharacterInfo describes the persona the assistant speaks as.
type CharacterInfo struct {
	Name                string   `json:"name" binding:"required"`
	Age                 int      `json:"age" binding:"required"`
	Personality         string   `json:"personality" binding:"required"`
	Occupation          string   `json:"occupation,omitempty"`
	Interests           []string `json:"interests,omitempty"`
	SpeakingStyle       string   `json:"speaking_style,omitempty"`
	RelationshipContext string   `json:"relationship_context,omitempty"`
}

type ChatRequest struct {
	Messages     []ChatMessage  `json:"messages" binding:"required,dive"`
	MaxTokens    int            `json:"max_tokens" binding:"min=1,max=2048"`
	Temperature  float32        `json:"temperature" binding:"min=0,max=2"`
	Character    *CharacterInfo `json:"character,omitempty"`
	SystemPrompt string         `json:"system_prompt,omitempty"`
}

// NewChatRequest returns a request carrying the defaults that apply when the client omits a field.
func NewChatRequest() ChatRequest {
	return ChatRequest{
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
	}
}

type ChatResponse struct {
	Message       string  `json:"message"`
	TokensUsed    int     `json:"tokens_used"`
	Model         string  `json:"model"`
	FinishReason  string  `json:"finish_reason"`
	CharacterName *string `json:"character_name"`
}

// StreamEvent is one frame of the chat event stream.
type StreamEvent struct {
	Content    *string `json:"content,omitempty"`
	Error      string  `json:"error,omitempty"`
	IsComplete bool    `json:"is_complete"`
}

func ContentEvent(text string) StreamEvent {
	return StreamEvent{Content: &text}
}

func CompleteEvent() StreamEvent {
	empty := ""
	return StreamEvent{Content: &empty, IsComplete: true}
}

func ErrorEvent(msg string) StreamEvent {
	return StreamEvent{Error: msg, IsComplete: true}
}

// Completion is the provider-neutral request handed to a ChatGenerator.
type Completion struct {
	Model            string
	Messages         []ChatMessage
	MaxTokens        int
	Temperature      float32
	PresencePenalty  float32
	FrequencyPenalty float32
}

// CompletionResult is the provider-neutral result of a non-streaming completion.
// FinishReason is empty when the provider did not report one.
type CompletionResult struct {
	Text         string
	TotalTokens  int
	Model        string
	FinishReason string
}

type ImageGenerationRequest struct {
	Prompt            string  `json:"prompt" binding:"required,min=1,max=2000"`
	NegativePrompt    string  `json:"negative_prompt"`
	Width             int     `json:"width" binding:"min=256,max=1440"`
	Height            int     `json:"height" binding:"min=256,max=1440"`
	NumOutputs        int     `json:"num_outputs" binding:"min=1,max=4"`
	Model             string  `json:"model"`
	GuidanceScale     float64 `json:"guidance_scale" binding:"min=1,max=20"`
	NumInferenceSteps int     `json:"num_inference_steps" binding:"min=1,max=50"`
	Seed              *int64  `json:"seed,omitempty"`
}

// NewImageGenerationRequest returns a request carrying the defaults that apply when the client omits a field.
func NewImageGenerationRequest() ImageGenerationRequest {
	return ImageGenerationRequest{
		Width:             DefaultImageSize,
		Height:            DefaultImageSize,
		NumOutputs:        1,
		Model:             DefaultImageModel,
		GuidanceScale:     DefaultGuidanceScale,
		NumInferenceSteps: DefaultInferenceSteps,
	}
}

type ImageGenerationResponse struct {
	Images         []string `json:"images"`
	GenerationTime float64  `json:"generation_time"`
	Model          string   `json:"model"`
	Prompt         string   `json:"prompt"`
}

type AsyncGenerationResponse struct {
	PredictionID string `json:"prediction_id"`
	Status       string `json:"status"`
	Model        string `json:"model"`
}

type GenerationStatusResponse struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output"`
	Error  *string  `json:"error"`
}

// ImageInput is the provider input document. Zero-valued optional fields are omitted on the wire.
type ImageInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	NumOutputs        int     `json:"num_outputs"`
	AspectRatio       string  `json:"aspect_ratio,omitempty"`
	OutputFormat      string  `json:"output_format,omitempty"`
	OutputQuality     int     `json:"output_quality,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	Seed              *int64  `json:"seed,omitempty"`
}

type OutputKind int

const (
	OutputNone OutputKind = iota
	OutputSingle
	OutputList
)

// ImageOutput is the provider output, classified once at the adapter boundary.
type ImageOutput struct {
	Kind OutputKind
	URLs []string
}

func NoOutput() ImageOutput {
	return ImageOutput{Kind: OutputNone}
}

func SingleOutput(url string) ImageOutput {
	return ImageOutput{Kind: OutputSingle, URLs: []string{url}}
}

func ListOutput(urls []string) ImageOutput {
	return ImageOutput{Kind: OutputList, URLs: urls}
}

// List returns the output as a list of URLs, empty when there is no output.
func (o ImageOutput) List() []string {
	if o.Kind == OutputNone {
		return []string{}
	}
	return o.URLs
}

// Optional returns nil when there is nothing to report yet.
func (o ImageOutput) Optional() []string {
	if o.Kind == OutputNone || len(o.URLs) == 0 {
		return nil
	}
	return o.URLs
}

type PredictionStatus string

const (
	StatusStarting   PredictionStatus = "starting"
	StatusProcessing PredictionStatus = "processing"
	StatusSucceeded  PredictionStatus = "succeeded"
	StatusFailed     PredictionStatus = "failed"
	StatusCanceled   PredictionStatus = "canceled"
)

// Terminal reports whether the prediction will not change state anymore.
func (s PredictionStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCanceled
}

func (s PredictionStatus) Known() bool {
	return s == StatusStarting || s == StatusProcessing || s.Terminal()
}

type Prediction struct {
	ID     string
	Status PredictionStatus
	Output ImageOutput
	Error  string
}

type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

type ErrorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code"`
	Timestamp  string `json:"timestamp"`
}
