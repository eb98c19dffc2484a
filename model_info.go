package imagestudio

import "github.com/samber/lo"

// ModelCapabilities describes what features a model supports.
type ModelCapabilities struct {
	SupportsTextToImage  bool
	SupportsImageEditing bool
	SupportsMultiImage   bool // Multiple input images for editing

	// Limits
	MaxInputImages  int // Max images per request
	MaxOutputImages int // Max images generated per request
}

// RateLimits defines rate limiting parameters for a model.
type RateLimits struct {
	TokensPerMinute   int
	RequestsPerMinute int
}

// ModelInfo contains complete metadata for a model.
type ModelInfo struct {
	// Identity
	Name         string   // Public model name (e.g., "nano-banana-1")
	Provider     Provider // Which provider serves this model
	APIModelName string   // Actual API name (e.g., "gemini-2.5-flash-image-preview")

	Capabilities ModelCapabilities

	// Empty means any aspect ratio is accepted
	SupportedAspectRatios []AspectRatio

	RateLimits RateLimits
}

// Supports reports whether the model can serve the operation.
func (mi ModelInfo) Supports(op Operation) bool {
	switch op {
	case OperationCreate:
		return mi.Capabilities.SupportsTextToImage
	case OperationEdit:
		return mi.Capabilities.SupportsImageEditing
	case OperationCompose:
		return mi.Capabilities.SupportsImageEditing && mi.Capabilities.SupportsMultiImage
	}
	return false
}

// SupportsAspectRatio reports whether the model offers ratio.
func (mi ModelInfo) SupportsAspectRatio(ratio AspectRatio) bool {
	return len(mi.SupportedAspectRatios) == 0 || lo.Contains(mi.SupportedAspectRatios, ratio)
}
