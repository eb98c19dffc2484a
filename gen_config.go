package imagestudio

import (
	"time"
)

// Model represents a specific image generation model.
type Model string

// AspectRatio represents the aspect ratio for generated images.
type AspectRatio string

const (
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatioAuto AspectRatio = ""
)

// MIMETypePNG is the output format requested from text-to-image models.
const MIMETypePNG = "image/png"

// GenerateConfig holds configuration options for a single model call.
type GenerateConfig struct {
	// Model to use (if empty, the manager picks its default for the operation)
	Model Model

	// AspectRatio of the output image
	AspectRatio AspectRatio

	// NumberOfImages to generate. Only text-to-image calls honour it.
	NumberOfImages int

	// OutputMIMEType requested for text-to-image calls
	OutputMIMEType string

	// Metadata to attach to requests (for logging/tracking)
	Metadata map[string]string

	// WaitOnRateLimit, if true, causes the Manager to wait for capacity when
	// rate limited. If false, a RateLimitError is returned immediately.
	WaitOnRateLimit bool

	// MaxWaitDuration is the maximum time to wait when WaitOnRateLimit is true.
	// Zero means no limit.
	MaxWaitDuration time.Duration
}

// WithModel returns a copy of the config with the specified model.
func (c *GenerateConfig) WithModel(model Model) *GenerateConfig {
	if c == nil {
		return &GenerateConfig{Model: model}
	}
	cX := *c
	cX.Model = model
	return &cX
}

// DefaultConfig returns a GenerateConfig with sensible defaults.
func DefaultConfig() *GenerateConfig {
	return &GenerateConfig{
		AspectRatio:    AspectRatio1x1,
		NumberOfImages: 1,
		OutputMIMEType: MIMETypePNG,
	}
}

// InputImage represents an image supplied by the user.
type InputImage struct {
	// Data is the raw image bytes
	Data []byte

	// MIMEType of the image (e.g., "image/jpeg", "image/png")
	MIMEType string

	// Name is the original file name, if known
	Name string
}

// DataURI returns the image encoded as a data URI.
func (img InputImage) DataURI() string {
	return DataURI(img.MIMEType, img.Data)
}

// String returns the string representation for API calls.
func (a AspectRatio) String() string {
	return string(a)
}

// String returns the model identifier.
func (m Model) String() string {
	return string(m)
}
