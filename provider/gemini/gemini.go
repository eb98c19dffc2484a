// Package gemini provides an ImageGenerator implementation using Google's Gemini API.
//
// Text-to-image calls go to Imagen through Models.GenerateImages. Edit and
// compose calls go to Gemini Flash Image through Models.GenerateContent with
// image and text response modalities.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/mhpenta/imagestudio"
)

// Model name constants - the actual API model names.
const (
	// APIModelImagen4 is the text-to-image model.
	APIModelImagen4 = "imagen-4.0-generate-001"

	// APIModelNanoBanana1 is the image editing model (Gemini 2.5 Flash Image).
	APIModelNanoBanana1 = "gemini-2.5-flash-image-preview"
)

// ModelsAPI is the part of genai.Models the generator calls.
// *genai.Client's Models field satisfies it.
type ModelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error)
}

// Generator implements ImageGenerator using Google's Gemini API.
type Generator struct {
	models ModelsAPI
}

var _ imagestudio.ImageGenerator = (*Generator)(nil)

// New creates a Generator from a ProviderConfig.
func New(ctx context.Context, config *imagestudio.ProviderConfig) (*Generator, error) {
	if config == nil {
		config = &imagestudio.ProviderConfig{}
	}

	clientCfg := &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	}

	// If APIKey is empty, the SDK will try GOOGLE_API_KEY or GEMINI_API_KEY env vars
	if config.APIKey != "" {
		clientCfg.APIKey = config.APIKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return NewWithModels(client.Models), nil
}

// NewWithAPIKey creates a generator with an API key for Gemini API.
func NewWithAPIKey(ctx context.Context, apiKey string) (*Generator, error) {
	return New(ctx, &imagestudio.ProviderConfig{
		Provider: imagestudio.ProviderGeminiAPI,
		APIKey:   apiKey,
	})
}

// NewWithModels creates a generator over an existing models API.
func NewWithModels(models ModelsAPI) *Generator {
	return &Generator{models: models}
}

// Create generates images from a text prompt.
func (g *Generator) Create(ctx context.Context, prompt string, config *imagestudio.GenerateConfig) (*imagestudio.GenerateResult, error) {
	if err := imagestudio.ValidatePrompt(prompt); err != nil {
		return nil, err
	}
	if config == nil {
		config = imagestudio.DefaultConfig()
	}

	modelName := resolveModel(config, APIModelImagen4)

	resp, err := g.models.GenerateImages(ctx, modelName, prompt, buildGenerateImagesConfig(config))
	if err != nil {
		return nil, wrapCallError(err, modelName, "generation")
	}

	return parseImagesResult(resp), nil
}

// Edit modifies an image. Parts are sent as [image, instruction].
func (g *Generator) Edit(ctx context.Context, image imagestudio.InputImage, instruction string, config *imagestudio.GenerateConfig) (*imagestudio.GenerateResult, error) {
	if err := imagestudio.ValidatePrompt(instruction); err != nil {
		return nil, err
	}
	if err := imagestudio.ValidateInputImage(image); err != nil {
		return nil, err
	}

	return g.generateContent(ctx, config, "edit", []*genai.Part{
		genai.NewPartFromBytes(image.Data, image.MIMEType),
		genai.NewPartFromText(instruction),
	})
}

// Compose merges two images. Parts are sent as [first, second, instruction].
func (g *Generator) Compose(ctx context.Context, first, second imagestudio.InputImage, instruction string, config *imagestudio.GenerateConfig) (*imagestudio.GenerateResult, error) {
	if err := imagestudio.ValidatePrompt(instruction); err != nil {
		return nil, err
	}
	for _, img := range []imagestudio.InputImage{first, second} {
		if err := imagestudio.ValidateInputImage(img); err != nil {
			return nil, err
		}
	}

	return g.generateContent(ctx, config, "compose", []*genai.Part{
		genai.NewPartFromBytes(first.Data, first.MIMEType),
		genai.NewPartFromBytes(second.Data, second.MIMEType),
		genai.NewPartFromText(instruction),
	})
}

func (g *Generator) generateContent(ctx context.Context, config *imagestudio.GenerateConfig, op string, parts []*genai.Part) (*imagestudio.GenerateResult, error) {
	if config == nil {
		config = imagestudio.DefaultConfig()
	}

	modelName := resolveModel(config, APIModelNanoBanana1)
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := g.models.GenerateContent(ctx, modelName, contents, buildGenerateContentConfig(config))
	if err != nil {
		return nil, wrapCallError(err, modelName, op)
	}

	return parseContentResult(resp)
}

// Models returns the model definitions supported by this provider.
func (g *Generator) Models() []imagestudio.ModelInfo {
	return []imagestudio.ModelInfo{
		Imagen4Info,
		NanoBanana1Info,
	}
}

// Close releases any resources held by the generator.
func (g *Generator) Close() error {
	// The genai.Client doesn't require explicit closing in the current SDK
	return nil
}

func resolveModel(config *imagestudio.GenerateConfig, fallback string) string {
	if config != nil && config.Model != "" {
		return string(config.Model)
	}
	return fallback
}

func buildGenerateImagesConfig(config *imagestudio.GenerateConfig) *genai.GenerateImagesConfig {
	imagesConfig := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: imagestudio.MIMETypePNG,
	}
	if config.NumberOfImages > 0 {
		imagesConfig.NumberOfImages = int32(config.NumberOfImages)
	}
	if config.OutputMIMEType != "" {
		imagesConfig.OutputMIMEType = config.OutputMIMEType
	}
	if config.AspectRatio != imagestudio.AspectRatioAuto {
		imagesConfig.AspectRatio = config.AspectRatio.String()
	}
	return imagesConfig
}

// buildGenerateContentConfig asks for both image and text parts. Aspect ratio
// is only forwarded when the caller sets one.
func buildGenerateContentConfig(config *imagestudio.GenerateConfig) *genai.GenerateContentConfig {
	genConfig := &genai.GenerateContentConfig{
		ResponseModalities: []string{
			string(genai.ModalityImage),
			string(genai.ModalityText),
		},
	}
	if config.AspectRatio != imagestudio.AspectRatioAuto {
		genConfig.ImageConfig = &genai.ImageConfig{AspectRatio: config.AspectRatio.String()}
	}
	return genConfig
}

func parseImagesResult(resp *genai.GenerateImagesResponse) *imagestudio.GenerateResult {
	result := &imagestudio.GenerateResult{}
	if resp == nil {
		return result
	}

	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mimeType := generated.Image.MIMEType
		if mimeType == "" {
			mimeType = imagestudio.MIMETypePNG
		}
		result.Images = append(result.Images, imagestudio.GeneratedImage{
			Data:     generated.Image.ImageBytes,
			MIMEType: mimeType,
			Index:    len(result.Images),
		})
	}
	result.UsageMetadata = &imagestudio.UsageMetadata{ImageCount: len(result.Images)}
	return result
}

// wrapCallError converts quota errors to RateLimitError and wraps the rest.
func wrapCallError(err error, model, op string) error {
	if rlErr := checkRateLimitError(err, model); rlErr != nil {
		return rlErr
	}
	return fmt.Errorf("%s failed: %w", op, err)
}

// checkRateLimitError returns a RateLimitError if err is a Gemini quota
// error, nil otherwise.
func checkRateLimitError(err error, model string) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return nil
	}

	if apiErr.Code != http.StatusTooManyRequests && apiErr.Status != "RESOURCE_EXHAUSTED" {
		return nil
	}

	return &imagestudio.RateLimitError{
		RetryAfter: 60 * time.Second, // Default; API doesn't reliably provide Retry-After
		LimitType:  "requests",
		Model:      model,
		Err:        err,
	}
}
