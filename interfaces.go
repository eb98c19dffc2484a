package imagestudio

import "context"

// ImageGenerator is the core interface for image generation models.
// Implement this interface to add support for new models or providers.
//
// Each method wraps exactly one call to the external model service.
type ImageGenerator interface {
	// Create generates an image from a text prompt.
	Create(ctx context.Context, prompt string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Edit modifies an existing image based on a text instruction.
	// The request parts are sent in the order [image, instruction].
	Edit(ctx context.Context, image InputImage, instruction string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Compose merges two images following a text instruction.
	// The request parts are sent in the order [first, second, instruction].
	Compose(ctx context.Context, first, second InputImage, instruction string, genConfig *GenerateConfig) (*GenerateResult, error)

	// Models returns the model definitions supported by this provider.
	Models() []ModelInfo

	// Close releases any resources held by the generator.
	Close() error
}
