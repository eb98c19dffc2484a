package gemini

import "github.com/mhpenta/imagestudio"

// Imagen4Info describes Imagen 4, used for text-to-image.
var Imagen4Info = imagestudio.ModelInfo{
	Name:         string(imagestudio.ModelImagen4),
	Provider:     imagestudio.ProviderGeminiAPI,
	APIModelName: APIModelImagen4,

	Capabilities: imagestudio.ModelCapabilities{
		SupportsTextToImage: true,
		MaxOutputImages:     4,
	},

	SupportedAspectRatios: []imagestudio.AspectRatio{
		imagestudio.AspectRatio1x1,
		imagestudio.AspectRatio16x9,
	},

	// Imagen quotas are per request; prompts are short.
	RateLimits: imagestudio.RateLimits{
		RequestsPerMinute: 20,
	},
}

// NanoBanana1Info describes Gemini 2.5 Flash Image, used for edit and compose.
var NanoBanana1Info = imagestudio.ModelInfo{
	Name:         string(imagestudio.ModelNanoBanana1),
	Provider:     imagestudio.ProviderGeminiAPI,
	APIModelName: APIModelNanoBanana1,

	Capabilities: imagestudio.ModelCapabilities{
		SupportsImageEditing: true,
		SupportsMultiImage:   true,
		MaxInputImages:       3,
		MaxOutputImages:      1,
	},

	// Flash Image keeps the input framing unless asked otherwise
	SupportedAspectRatios: []imagestudio.AspectRatio{
		imagestudio.AspectRatioAuto,
		imagestudio.AspectRatio1x1,
		imagestudio.AspectRatio16x9,
	},

	RateLimits: imagestudio.RateLimits{
		TokensPerMinute:   4000000,
		RequestsPerMinute: 500, // ~500 RPM for Tier 1
	},
}
