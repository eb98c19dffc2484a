package imagestudio

// GeneratedImage represents a single image returned by a model.
type GeneratedImage struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the generated image
	MIMEType string

	// Index is the position in a multi-image result (0-indexed)
	Index int
}

// DataURI returns the image formatted as data:<mime>;base64,<payload>.
func (g GeneratedImage) DataURI() string {
	return DataURI(g.MIMEType, g.Data)
}

// GenerateResult holds the complete result of a model call.
type GenerateResult struct {
	// Images contains all returned images, in response order
	Images []GeneratedImage

	// Text contains any text response from the model
	Text string

	// UsageMetadata contains token/billing information
	UsageMetadata *UsageMetadata
}

// First returns the first image of the result.
func (r *GenerateResult) First() (GeneratedImage, bool) {
	if r == nil || len(r.Images) == 0 {
		return GeneratedImage{}, false
	}
	return r.Images[0], true
}

// UsageMetadata contains usage information for billing and monitoring.
type UsageMetadata struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
	ImageCount       int
}
