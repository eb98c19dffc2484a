package imagestudio

import (
	"context"
)

// MockImageGenerator is a mock implementation of ImageGenerator.
type MockImageGenerator struct {
	CreateFunc  func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error)
	EditFunc    func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error)
	ComposeFunc func(ctx context.Context, first, second InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error)
	ModelsFunc  func() []ModelInfo
	CloseFunc   func() error
}

func (m *MockImageGenerator) Create(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, prompt, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	if m.EditFunc != nil {
		return m.EditFunc(ctx, image, instruction, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Compose(ctx context.Context, first, second InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	if m.ComposeFunc != nil {
		return m.ComposeFunc(ctx, first, second, instruction, config)
	}
	return &GenerateResult{}, nil
}

func (m *MockImageGenerator) Models() []ModelInfo {
	if m.ModelsFunc != nil {
		return m.ModelsFunc()
	}
	return []ModelInfo{}
}

func (m *MockImageGenerator) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func testModels() []ModelInfo {
	return []ModelInfo{
		{
			Name:         "test-create",
			Provider:     "test-provider",
			APIModelName: "test-create-api",
			Capabilities: ModelCapabilities{SupportsTextToImage: true, MaxOutputImages: 4},
		},
		{
			Name:         "test-edit",
			Provider:     "test-provider",
			APIModelName: "test-edit-api",
			Capabilities: ModelCapabilities{
				SupportsImageEditing: true,
				SupportsMultiImage:   true,
				MaxInputImages:       3,
				MaxOutputImages:      1,
			},
		},
	}
}
