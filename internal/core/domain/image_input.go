package domain

const (
	outputFormat          = "webp"
	outputQuality         = 90
	defaultNegativePrompt = "ugly, blurry, low quality, distorted"
	asyncNegativePrompt   = "ugly, blurry, low quality"
)

// BuildRunInput builds the provider input for a blocking generation.
func BuildRunInput(req ImageGenerationRequest, family ModelFamily) ImageInput {
	var in ImageInput

	switch family {
	case FamilyFast:
		in = ImageInput{
			Prompt:        req.Prompt,
			NumOutputs:    req.NumOutputs,
			AspectRatio:   AspectRatio(req.Width, req.Height),
			OutputFormat:  outputFormat,
			OutputQuality: outputQuality,
		}
	default:
		in = ImageInput{
			Prompt:            req.Prompt,
			NegativePrompt:    orDefault(req.NegativePrompt, defaultNegativePrompt),
			Width:             req.Width,
			Height:            req.Height,
			NumOutputs:        req.NumOutputs,
			GuidanceScale:     req.GuidanceScale,
			NumInferenceSteps: req.NumInferenceSteps,
		}
	}

	if req.Seed != nil && *req.Seed != 0 {
		seed := *req.Seed
		in.Seed = &seed
	}

	return in
}

// BuildSubmitInput builds the provider input for an asynchronous prediction. It carries a smaller
// parameter set than BuildRunInput: no output quality, inference steps or seed.
func BuildSubmitInput(req ImageGenerationRequest, family ModelFamily) ImageInput {
	if family == FamilyFast {
		return ImageInput{
			Prompt:       req.Prompt,
			NumOutputs:   req.NumOutputs,
			AspectRatio:  AspectRatio(req.Width, req.Height),
			OutputFormat: outputFormat,
		}
	}

	return ImageInput{
		Prompt:         req.Prompt,
		NegativePrompt: orDefault(req.NegativePrompt, asyncNegativePrompt),
		Width:          req.Width,
		Height:         req.Height,
		NumOutputs:     req.NumOutputs,
		GuidanceScale:  req.GuidanceScale,
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
