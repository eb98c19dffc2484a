package imagestudio

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Validation errors for model calls
var (
	ErrEmptyPrompt     = errors.New("prompt cannot be empty")
	ErrEmptyImageData  = errors.New("image data cannot be empty")
	ErrInvalidMIMEType = errors.New("invalid or unsupported MIME type")
	ErrImageTooLarge   = errors.New("image data exceeds maximum size")
)

// Intent errors. Their messages are shown to the user verbatim.
var (
	ErrMissingCreatePrompt = errors.New("please describe the image you want to create")
	ErrMissingEditPrompt   = errors.New("please describe the edit you want to make")
	ErrNeedTwoImages       = errors.New("please select two images to compose")
	ErrNeedOneImage        = errors.New("please select an image to edit")
)

// Image size limits
const (
	// MaxImageSize is the maximum allowed image size in bytes (10MB)
	MaxImageSize = 10 * 1024 * 1024
)

// SupportedMIMETypes returns the image MIME types accepted as input.
func SupportedMIMETypes() []string {
	return []string{"image/png", "image/jpeg", "image/webp"}
}

// ValidatePrompt validates a text prompt.
func ValidatePrompt(prompt string) error {
	if prompt == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// ValidateInputImage validates an input image against MaxImageSize.
func ValidateInputImage(img InputImage) error {
	return ValidateInputImageSize(img, MaxImageSize)
}

// ValidateInputImageSize validates an input image against maxBytes. A
// non-positive maxBytes means MaxImageSize.
func ValidateInputImageSize(img InputImage, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxImageSize
	}

	if len(img.Data) == 0 {
		return ErrEmptyImageData
	}

	if int64(len(img.Data)) > maxBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, len(img.Data), maxBytes)
	}

	if img.MIMEType == "" {
		return fmt.Errorf("%w: MIME type is required", ErrInvalidMIMEType)
	}

	if !lo.Contains(SupportedMIMETypes(), img.MIMEType) {
		return fmt.Errorf("%w: %s", ErrInvalidMIMEType, img.MIMEType)
	}

	return nil
}

// Validate checks the intent in order: prompt, then the images the selected
// task needs. The first failing rule wins.
func (in Intent) Validate() error {
	if in.Prompt == "" {
		if in.Mode == ModeEdit {
			return ErrMissingEditPrompt
		}
		return ErrMissingCreatePrompt
	}

	if in.Mode != ModeEdit {
		return nil
	}

	if in.EditVariant == EditCompose {
		if in.Primary == nil || in.Secondary == nil {
			return ErrNeedTwoImages
		}
		return nil
	}

	if in.Primary == nil {
		return ErrNeedOneImage
	}
	return nil
}
