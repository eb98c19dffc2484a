package imagestudio

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// ReadImage reads an uploaded image of at most maxBytes from r and closes r
// if it is an io.Closer, on every return path. A non-positive maxBytes means
// MaxImageSize. When declaredMIME is empty or generic the MIME type is
// sniffed from the content.
func ReadImage(r io.Reader, declaredMIME, name string, maxBytes int64) (InputImage, error) {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}
	if maxBytes <= 0 {
		maxBytes = MaxImageSize
	}

	// One extra byte tells an oversized upload apart from an exact fit.
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return InputImage{}, fmt.Errorf("reading image %q: %w", name, err)
	}

	img := InputImage{
		Data:     data,
		MIMEType: resolveMIMEType(declaredMIME, name, data),
		Name:     name,
	}
	if err := ValidateInputImageSize(img, maxBytes); err != nil {
		return InputImage{}, err
	}
	return img, nil
}

// ReadImageFile reads an image of at most MaxImageSize from disk.
func ReadImageFile(path string) (InputImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return InputImage{}, fmt.Errorf("opening image: %w", err)
	}
	return ReadImage(f, GetMIMEType(path), filepath.Base(path), MaxImageSize)
}

func resolveMIMEType(declared, name string, data []byte) string {
	declared = baseMIMEType(declared)
	if lo.Contains(SupportedMIMETypes(), declared) {
		return declared
	}
	if sniffed := baseMIMEType(http.DetectContentType(data)); sniffed != "application/octet-stream" {
		return sniffed
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return GetMIMEType(name)
}

// baseMIMEType drops parameters such as charset and normalizes case.
func baseMIMEType(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// GetMIMEType guesses an image MIME type from a file extension.
func GetMIMEType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
