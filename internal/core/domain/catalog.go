package domain

import (
	"strings"
)

type ModelFamily string

const (
	// FamilyFast models take an aspect ratio instead of explicit dimensions.
	FamilyFast ModelFamily = "fast"
	// FamilyQuality models take explicit dimensions, negative prompt and sampler settings.
	FamilyQuality ModelFamily = "quality"
)

type ImageModel struct {
	Key         string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Speed       string      `json:"speed"`
	Identifier  string      `json:"-"`
	Family      ModelFamily `json:"-"`
}

// DefaultImageModels is the built-in model table, in catalog order.
func DefaultImageModels() []ImageModel {
	return []ImageModel{
		{
			Key:         "flux-schnell",
			Name:        "Flux Schnell",
			Description: "Fast, high-quality images",
			Speed:       "fast",
			Identifier:  "black-forest-labs/flux-schnell",
			Family:      FamilyFast,
		},
		{
			Key:         "flux-dev",
			Name:        "Flux Dev",
			Description: "Higher quality, slower",
			Speed:       "medium",
			Identifier:  "black-forest-labs/flux-dev",
			Family:      FamilyFast,
		},
		{
			Key:         "sdxl",
			Name:        "SDXL",
			Description: "Stable Diffusion XL",
			Speed:       "medium",
			Identifier:  "stability-ai/sdxl:39ed52f2a78e934b3ba6e2a89f5b1c712de7dfea535525255b1aa35c5565e08b",
			Family:      FamilyQuality,
		},
		{
			Key:         "sdxl-lightning",
			Name:        "SDXL Lightning",
			Description: "Fast SDXL variant",
			Speed:       "fast",
			Identifier:  "bytedance/sdxl-lightning-4step:5599ed30703defd1d160a25a63321b4dec97101d98b4674bcc56e41f62f35637",
			Family:      FamilyQuality,
		},
	}
}

// ImageCatalog is an immutable lookup table of image models. Build it once at startup and share it.
type ImageCatalog struct {
	models   []ImageModel
	byKey    map[string]ImageModel
	fallback string
}

// NewImageCatalog builds a catalog from models, replacing identifiers with any non-empty overrides.
// Lookups of unknown keys resolve to fallbackKey, which must be one of the models.
func NewImageCatalog(models []ImageModel, overrides map[string]string, fallbackKey string) (*ImageCatalog, error) {
	c := &ImageCatalog{
		models:   make([]ImageModel, 0, len(models)),
		byKey:    make(map[string]ImageModel, len(models)),
		fallback: fallbackKey,
	}

	for _, m := range models {
		if id := strings.TrimSpace(overrides[m.Key]); id != "" {
			m.Identifier = id
		}
		c.models = append(c.models, m)
		c.byKey[m.Key] = m
	}

	if _, ok := c.byKey[fallbackKey]; !ok {
		return nil, &ConfigError{Message: "fallback image model not in catalog: " + fallbackKey}
	}

	return c, nil
}

// Resolve returns the model registered under key, or the fallback model when the key is unknown.
func (c *ImageCatalog) Resolve(key string) ImageModel {
	if m, ok := c.byKey[key]; ok {
		return m
	}
	return c.byKey[c.fallback]
}

// Models returns a copy of the catalog in declaration order.
func (c *ImageCatalog) Models() []ImageModel {
	out := make([]ImageModel, len(c.models))
	copy(out, c.models)
	return out
}

// SplitIdentifier separates "owner/name:version" into its model and version parts.
// The version is empty when the identifier does not pin one.
func SplitIdentifier(identifier string) (model, version string) {
	model, version, _ = strings.Cut(identifier, ":")
	return model, version
}
