package imagestudio

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhpenta/imagestudio/ratelimiter"
)

func TestManager_RoutesByOperation(t *testing.T) {
	var gotCreate, gotEdit, gotCompose string
	mockGen := &MockImageGenerator{
		ModelsFunc: testModels,
		CreateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			gotCreate = config.Model.String()
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("c")}}}, nil
		},
		EditFunc: func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			gotEdit = config.Model.String()
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("e")}}}, nil
		},
		ComposeFunc: func(ctx context.Context, first, second InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			gotCompose = config.Model.String()
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("m")}}}, nil
		},
	}

	manager := NewManager(mockGen)
	defer manager.Close()

	ctx := context.Background()
	img := InputImage{Data: []byte("x"), MIMEType: "image/png"}

	_, err := manager.Create(ctx, "a cat", nil)
	require.NoError(t, err)
	_, err = manager.Edit(ctx, img, "add a hat", nil)
	require.NoError(t, err)
	_, err = manager.Compose(ctx, img, img, "merge", nil)
	require.NoError(t, err)

	assert.Equal(t, "test-create-api", gotCreate)
	assert.Equal(t, "test-edit-api", gotEdit)
	assert.Equal(t, "test-edit-api", gotCompose)
}

func TestManager_DefaultModelOptions(t *testing.T) {
	models := func() []ModelInfo {
		infos := testModels()
		infos = append(infos, ModelInfo{
			Name:         "test-both",
			Provider:     "test-provider",
			APIModelName: "test-both-api",
			Capabilities: ModelCapabilities{
				SupportsTextToImage:  true,
				SupportsImageEditing: true,
				SupportsMultiImage:   true,
			},
		})
		return infos
	}

	manager := NewManager(&MockImageGenerator{ModelsFunc: models},
		WithCreateModel("test-both"),
		WithEditModel("test-both"),
	)

	assert.Equal(t, Model("test-both"), manager.DefaultModel(OperationCreate))
	assert.Equal(t, Model("test-both"), manager.DefaultModel(OperationEdit))
	assert.Equal(t, Model("test-both"), manager.DefaultModel(OperationCompose))

	// Empty names keep the fallback.
	manager = NewManager(&MockImageGenerator{ModelsFunc: models}, WithCreateModel(""))
	assert.Equal(t, Model("test-create"), manager.DefaultModel(OperationCreate))
}

func TestManager_Errors(t *testing.T) {
	manager := NewManager(&MockImageGenerator{ModelsFunc: testModels})
	ctx := context.Background()

	_, err := manager.Create(ctx, "a cat", &GenerateConfig{Model: "missing"})
	assert.ErrorIs(t, err, ErrModelNotRegistered)

	_, err = manager.Create(ctx, "a cat", &GenerateConfig{Model: "test-edit"})
	assert.ErrorIs(t, err, ErrOperationNotSupported)

	require.NoError(t, manager.Close())
	_, err = manager.Create(ctx, "a cat", nil)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)
}

func TestManager_PropagatesProviderError(t *testing.T) {
	boom := errors.New("boom")
	manager := NewManager(&MockImageGenerator{
		ModelsFunc: testModels,
		EditFunc: func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			return nil, boom
		},
	})

	_, err := manager.Edit(context.Background(), InputImage{Data: []byte("x"), MIMEType: "image/png"}, "x", nil)
	assert.ErrorIs(t, err, boom)
}

func TestManager_Close(t *testing.T) {
	closeErr := errors.New("close failed")
	manager := NewManager(&MockImageGenerator{
		ModelsFunc: testModels,
		CloseFunc:  func() error { return closeErr },
	})

	err := manager.Close()
	require.Error(t, err)
	assert.ErrorIs(t, err, closeErr)
	assert.NoError(t, manager.Close())
}

func TestManager_Models(t *testing.T) {
	manager := NewManager(&MockImageGenerator{ModelsFunc: testModels})

	models := manager.Models()
	require.Len(t, models, 2)
	assert.Equal(t, "test-create", models[0].Name)
	assert.Equal(t, "test-edit", models[1].Name)

	info, ok := manager.GetModelInfo("test-edit")
	require.True(t, ok)
	assert.True(t, info.Supports(OperationCompose))
}

func TestManager_Create_RateLimit(t *testing.T) {
	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:         "test-model",
					Provider:     "test-provider",
					APIModelName: "test-model-api",
					Capabilities: ModelCapabilities{SupportsTextToImage: true},
					RateLimits: RateLimits{
						TokensPerMinute:   100,
						RequestsPerMinute: 10,
					},
				},
			}
		},
		CreateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{
				Images: []GeneratedImage{{Data: []byte("fake-image")}},
			}, nil
		},
	}

	manager := NewManager(mockGen)
	defer manager.Close()

	ctx := context.Background()

	// "test prompt" estimates to 7 tokens, plus the 100 token buffer.
	_, err := manager.Create(ctx, "test prompt", nil)
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err), "expected RateLimitError, got %T: %v", err, err)

	manager.SetRateLimiter("test-model", ratelimiter.New(200, 10))

	result, err := manager.Create(ctx, "test prompt", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Images)

	manager.SetRateLimiter("test-model", nil)
	_, err = manager.Create(ctx, strings.Repeat("a", 10_000), nil)
	assert.NoError(t, err)
}

func TestManager_RateLimit_CountsInputImages(t *testing.T) {
	manager := NewManager(&MockImageGenerator{ModelsFunc: testModels})

	img := InputImage{Data: []byte("x"), MIMEType: "image/png"}
	ctx := context.Background()

	// One image plus buffer fits in 400 tokens; two images do not.
	manager.SetRateLimiter("test-edit", ratelimiter.New(400, 100))
	_, err := manager.Edit(ctx, img, "hi", nil)
	assert.NoError(t, err)

	manager.SetRateLimiter("test-edit", ratelimiter.New(400, 100))
	_, err = manager.Compose(ctx, img, img, "hi", nil)
	assert.True(t, IsRateLimitError(err))
}

func TestManager_TokenEstimation(t *testing.T) {
	manager := NewManager(&MockImageGenerator{ModelsFunc: testModels})
	ctx := context.Background()

	manager.SetRateLimiter("test-create", ratelimiter.New(200, 100))
	_, err := manager.Create(ctx, "hello", nil)
	assert.NoError(t, err)

	// 500 chars estimate to 153 tokens, plus the buffer exceeds 200.
	manager.SetRateLimiter("test-create", ratelimiter.New(200, 100))
	_, err = manager.Create(ctx, strings.Repeat("a", 500), nil)
	assert.True(t, IsRateLimitError(err), "expected RateLimitError, got %v", err)

	var seen string
	manager = NewManager(&MockImageGenerator{ModelsFunc: testModels},
		WithTokenEstimator(TokenEstimatorFunc(func(text string) int {
			seen = text
			return 0
		})),
	)
	manager.SetRateLimiter("test-create", ratelimiter.New(100, 100))
	_, err = manager.Create(ctx, strings.Repeat("a", 500), nil)
	assert.NoError(t, err)
	assert.Len(t, seen, 500)
}

func TestManager_WaitOnRateLimit(t *testing.T) {
	manager := NewManager(&MockImageGenerator{ModelsFunc: testModels})
	manager.SetRateLimiter("test-create", ratelimiter.New(1000, 1))

	ctx := context.Background()
	_, err := manager.Create(ctx, "x", nil)
	require.NoError(t, err)

	_, err = manager.Create(ctx, "x", &GenerateConfig{
		WaitOnRateLimit: true,
		MaxWaitDuration: 10 * time.Millisecond,
	})
	require.Error(t, err)
	assert.True(t, IsRateLimitError(err))
}

func TestManager_CapabilityLimits(t *testing.T) {
	var gotImages int
	mockGen := &MockImageGenerator{
		ModelsFunc: func() []ModelInfo {
			return []ModelInfo{
				{
					Name:                  "square-only",
					Provider:              "test-provider",
					APIModelName:          "square-only-api",
					Capabilities:          ModelCapabilities{SupportsTextToImage: true, MaxOutputImages: 2},
					SupportedAspectRatios: []AspectRatio{AspectRatio1x1},
				},
				{
					Name:         "single-input",
					Provider:     "test-provider",
					APIModelName: "single-input-api",
					Capabilities: ModelCapabilities{
						SupportsImageEditing: true,
						SupportsMultiImage:   true,
						MaxInputImages:       1,
					},
				},
			}
		},
		CreateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			gotImages = config.NumberOfImages
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("c")}}}, nil
		},
		EditFunc: func(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("e")}}}, nil
		},
		ComposeFunc: func(ctx context.Context, first, second InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
			t.Fatal("compose must be rejected before the provider is called")
			return nil, nil
		},
	}
	manager := NewManager(mockGen)
	ctx := context.Background()
	img := InputImage{Data: []byte("x"), MIMEType: "image/png"}

	t.Run("aspect ratio outside the supported set", func(t *testing.T) {
		_, err := manager.Create(ctx, "a cat", &GenerateConfig{AspectRatio: AspectRatio16x9, NumberOfImages: 1})
		assert.ErrorIs(t, err, ErrAspectRatioNotSupported)
	})

	t.Run("output count is capped", func(t *testing.T) {
		config := &GenerateConfig{AspectRatio: AspectRatio1x1, NumberOfImages: 5}
		_, err := manager.Create(ctx, "a cat", config)
		require.NoError(t, err)
		assert.Equal(t, 2, gotImages)
		assert.Equal(t, 5, config.NumberOfImages, "caller config is not modified")
	})

	t.Run("too many input images", func(t *testing.T) {
		_, err := manager.Edit(ctx, img, "add a hat", nil)
		require.NoError(t, err)

		_, err = manager.Compose(ctx, img, img, "merge", nil)
		assert.ErrorIs(t, err, ErrTooManyInputImages)
	})
}

func TestManager_RegisterByHand(t *testing.T) {
	var gotModel Model
	gen := &MockImageGenerator{
		CreateFunc: func(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
			gotModel = config.Model
			return &GenerateResult{Images: []GeneratedImage{{Data: []byte("c")}}}, nil
		},
	}
	info := testModels()[0]

	manager := New()
	manager.RegisterModel("fast", ModelMapping{Provider: "test-provider", ActualModelName: "fast-api"}, &info)
	manager.RegisterModel("slow", ModelMapping{Provider: "test-provider", ActualModelName: "slow-api"}, &info)

	_, err := manager.Create(context.Background(), "a cat", nil)
	assert.ErrorIs(t, err, ErrProviderNotConfigured)

	manager.RegisterProvider("test-provider", gen).SetDefaultModel(OperationCreate, "slow")
	assert.Equal(t, Model("slow"), manager.DefaultModel(OperationCreate))

	_, err = manager.Create(context.Background(), "a cat", nil)
	require.NoError(t, err)
	assert.Equal(t, Model("slow-api"), gotModel)
}
