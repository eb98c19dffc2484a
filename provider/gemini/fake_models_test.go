package gemini

import (
	"context"

	"google.golang.org/genai"
)

type contentCall struct {
	Model    string
	Contents []*genai.Content
	Config   *genai.GenerateContentConfig
}

type imagesCall struct {
	Model  string
	Prompt string
	Config *genai.GenerateImagesConfig
}

// fakeModels records calls and replays canned responses.
type fakeModels struct {
	contentResp *genai.GenerateContentResponse
	imagesResp  *genai.GenerateImagesResponse
	err         error

	contentCalls []contentCall
	imagesCalls  []imagesCall
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.contentCalls = append(f.contentCalls, contentCall{Model: model, Contents: contents, Config: config})
	return f.contentResp, f.err
}

func (f *fakeModels) GenerateImages(ctx context.Context, model, prompt string, config *genai.GenerateImagesConfig) (*genai.GenerateImagesResponse, error) {
	f.imagesCalls = append(f.imagesCalls, imagesCall{Model: model, Prompt: prompt, Config: config})
	return f.imagesResp, f.err
}

func contentResponse(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromParts(parts, genai.RoleModel)},
		},
	}
}
