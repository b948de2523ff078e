package domain

const (
	ServiceName = "Charm AI API"
	Version     = "2.0.0"
)

const (
	DefaultChatModel        = "gpt-4o-mini"
	DefaultMaxTokens        = 500
	DefaultTemperature      = 0.9
	DefaultPresencePenalty  = 0.6
	DefaultFrequencyPenalty = 0.3
)

const (
	DefaultImageModel     = "flux-schnell"
	DefaultImageSize      = 1024
	DefaultGuidanceScale  = 7.5
	DefaultInferenceSteps = 28
)
