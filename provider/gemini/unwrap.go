package gemini

import (
	"strings"

	"google.golang.org/genai"

	"github.com/mhpenta/imagestudio"
)

// UnwrapInlineImage returns the first inline image among the parts of the
// first candidate, wherever it sits among text parts. A response without
// one yields imagestudio.ErrNoImageReturned.
func UnwrapInlineImage(resp *genai.GenerateContentResponse) (imagestudio.GeneratedImage, error) {
	for _, part := range firstCandidateParts(resp) {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return imagestudio.GeneratedImage{
			Data:     part.InlineData.Data,
			MIMEType: part.InlineData.MIMEType,
		}, nil
	}
	return imagestudio.GeneratedImage{}, imagestudio.ErrNoImageReturned
}

func firstCandidateParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	return candidate.Content.Parts
}

// parseContentResult unwraps the image and gathers any non-thought text the
// model sent alongside it.
func parseContentResult(resp *genai.GenerateContentResponse) (*imagestudio.GenerateResult, error) {
	img, err := UnwrapInlineImage(resp)
	if err != nil {
		return nil, err
	}

	var text []string
	for _, part := range firstCandidateParts(resp) {
		if part != nil && part.Text != "" && !part.Thought {
			text = append(text, part.Text)
		}
	}

	result := &imagestudio.GenerateResult{
		Images: []imagestudio.GeneratedImage{img},
		Text:   strings.Join(text, "\n"),
	}

	if resp.UsageMetadata != nil {
		result.UsageMetadata = &imagestudio.UsageMetadata{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CandidatesTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
			ImageCount:       len(result.Images),
		}
	}

	return result, nil
}
