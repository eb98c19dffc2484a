package imagestudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"github.com/mhpenta/imagestudio/internal/log"
	"github.com/mhpenta/imagestudio/ratelimiter"
)

const (
	ModelImagen4     Model = "imagen-4"      // Imagen 4, text-to-image
	ModelNanoBanana1 Model = "nano-banana-1" // Gemini 2.5 Flash Image

	DefaultCreateModel Model = ModelImagen4
	DefaultEditModel   Model = ModelNanoBanana1
)

var (
	// ErrModelNotRegistered is returned when a model has no registered provider.
	ErrModelNotRegistered = errors.New("model not registered")

	// ErrProviderNotConfigured is returned when a provider lacks required config.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrOperationNotSupported is returned when the resolved model cannot
	// serve the requested operation.
	ErrOperationNotSupported = errors.New("operation not supported by model")

	// ErrAspectRatioNotSupported is returned for an aspect ratio the model
	// does not offer.
	ErrAspectRatioNotSupported = errors.New("aspect ratio not supported by model")

	// ErrTooManyInputImages is returned when a call carries more images than
	// the model accepts.
	ErrTooManyInputImages = errors.New("too many input images for model")
)

// Provider represents a model provider/backend.
type Provider string

const (
	ProviderGeminiAPI Provider = "gemini"
)

// ProviderConfig configures a specific provider.
type ProviderConfig struct {
	Provider Provider
	APIKey   string
}

// ModelMapping maps a model identifier to its provider and actual model name.
type ModelMapping struct {
	Provider        Provider
	ActualModelName string
}

// Manager implements ImageGenerator by routing each call to the provider
// registered for the model, after rate limiting it.
type Manager struct {
	modelMappings map[Model]ModelMapping
	providers     map[Provider]ImageGenerator

	// Default model per operation, used when config.Model is empty
	defaultModels map[Operation]Model

	rateLimiters map[Model]ratelimiter.Limiter
	modelInfo    map[Model]*ModelInfo

	// registration order, for deterministic fallbacks
	order []Model

	logger         *slog.Logger
	tokenEstimator TokenEstimator

	mu sync.RWMutex
}

var _ ImageGenerator = (*Manager)(nil)

// New creates an empty Manager.
func New() *Manager {
	return &Manager{
		logger:         slog.Default(),
		modelMappings:  make(map[Model]ModelMapping),
		providers:      make(map[Provider]ImageGenerator),
		defaultModels:  make(map[Operation]Model),
		rateLimiters:   make(map[Model]ratelimiter.Limiter),
		modelInfo:      make(map[Model]*ModelInfo),
		tokenEstimator: NewSimpleTokenEstimator(),
	}
}

// RegisterProvider makes gen serve every model registered under provider.
func (m *Manager) RegisterProvider(provider Provider, gen ImageGenerator) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.providers[provider] = gen
	return m
}

// RegisterModel registers a model and creates its in-memory rate limiter.
// Use SetRateLimiter to replace the limiter.
func (m *Manager) RegisterModel(model Model, mapping ModelMapping, info *ModelInfo) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.modelMappings[model]; !exists {
		m.order = append(m.order, model)
	}
	m.modelMappings[model] = mapping
	m.modelInfo[model] = info

	if info.RateLimits.TokensPerMinute > 0 || info.RateLimits.RequestsPerMinute > 0 {
		m.rateLimiters[model] = ratelimiter.New(
			info.RateLimits.TokensPerMinute,
			info.RateLimits.RequestsPerMinute,
		)
	}

	return m
}

// SetRateLimiter sets a custom rate limiter for a model. A nil limiter
// disables rate limiting for it.
func (m *Manager) SetRateLimiter(model Model, limiter ratelimiter.Limiter) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limiter == nil {
		delete(m.rateLimiters, model)
		return m
	}
	m.rateLimiters[model] = limiter
	return m
}

// SetDefaultModel sets the model used for op when config.Model is empty.
func (m *Manager) SetDefaultModel(op Operation, model Model) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.defaultModels[op] = model
	return m
}

// SetLogger sets the structured logger for the manager. A logger carried in
// the call's context takes precedence.
func (m *Manager) SetLogger(logger *slog.Logger) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger = logger
	return m
}

// Create generates an image from a text prompt.
func (m *Manager) Create(ctx context.Context, prompt string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, OperationCreate, prompt, 0, config,
		func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error) {
			return gen.Create(ctx, prompt, cfg)
		})
}

// Edit modifies an existing image based on a text instruction.
func (m *Manager) Edit(ctx context.Context, image InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, OperationEdit, instruction, 1, config,
		func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error) {
			return gen.Edit(ctx, image, instruction, cfg)
		})
}

// Compose merges two images following a text instruction.
func (m *Manager) Compose(ctx context.Context, first, second InputImage, instruction string, config *GenerateConfig) (*GenerateResult, error) {
	return m.dispatch(ctx, OperationCompose, instruction, 2, config,
		func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error) {
			return gen.Compose(ctx, first, second, instruction, cfg)
		})
}

type providerCall func(gen ImageGenerator, cfg *GenerateConfig) (*GenerateResult, error)

func (m *Manager) dispatch(ctx context.Context, op Operation, prompt string, inputImages int, config *GenerateConfig, call providerCall) (*GenerateResult, error) {
	if config == nil {
		config = DefaultConfig()
	}

	logger, ok := log.FromContext(ctx)
	if !ok {
		m.mu.RLock()
		logger = m.logger
		m.mu.RUnlock()
	}

	model := m.resolveModel(op, config)
	start := time.Now()

	logger = logger.With(
		slog.String("operation", string(op)),
		slog.String("model", string(model)),
	)
	logger.Debug("starting "+string(op),
		append([]any{
			"prompt_length", len(prompt),
			"input_images", inputImages,
		}, metadataAttrs(config.Metadata)...)...,
	)

	gen, actualConfig, err := m.getGeneratorForModel(op, model, config, inputImages)
	if err != nil {
		logger.Error("failed to get generator", "error", err.Error())
		return nil, err
	}

	if err := m.checkRateLimit(ctx, model, config, prompt, inputImages); err != nil {
		logger.Warn("rate limit hit", "error", err.Error())
		return nil, err
	}

	result, err := call(gen, actualConfig)
	duration := time.Since(start)

	if err != nil {
		logger.Error(string(op)+" failed",
			"duration_ms", duration.Milliseconds(),
			"error", err.Error(),
		)
		return nil, err
	}

	logAttrs := []any{
		"duration_ms", duration.Milliseconds(),
		"image_count", len(result.Images),
	}
	if result.UsageMetadata != nil {
		logAttrs = append(logAttrs,
			"prompt_tokens", result.UsageMetadata.PromptTokens,
			"response_tokens", result.UsageMetadata.CandidatesTokens,
			"total_tokens", result.UsageMetadata.TotalTokens,
		)
	}
	logger.Info(string(op)+" completed", logAttrs...)

	return result, nil
}

func metadataAttrs(metadata map[string]string) []any {
	keys := lo.Keys(metadata)
	sort.Strings(keys)
	return lo.Map(keys, func(k string, _ int) any {
		return slog.String(k, metadata[k])
	})
}

// Models returns all registered model definitions in registration order.
func (m *Manager) Models() []ModelInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	models := make([]ModelInfo, 0, len(m.order))
	for _, model := range m.order {
		if info := m.modelInfo[model]; info != nil {
			models = append(models, *info)
		}
	}
	return models
}

// Close releases all provider resources.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for provider, gen := range m.providers {
		if err := gen.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", provider, err))
		}
	}
	m.providers = make(map[Provider]ImageGenerator)

	return errors.Join(errs...)
}

// GetModelInfo returns model information for a specific model.
func (m *Manager) GetModelInfo(model Model) (*ModelInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.modelInfo[model]
	return info, ok
}

// DefaultModel returns the model used for op when none is requested.
func (m *Manager) DefaultModel(op Operation) Model {
	return m.resolveModel(op, nil)
}

// tokenBuffer is added to every estimate to cover the response.
const tokenBuffer = 100

// checkRateLimit consumes the estimated tokens from the model's limiter,
// waiting for capacity when the config asks for it.
func (m *Manager) checkRateLimit(ctx context.Context, model Model, config *GenerateConfig, prompt string, inputImages int) error {
	m.mu.RLock()
	limiter := m.rateLimiters[model]
	estimator := m.tokenEstimator
	m.mu.RUnlock()

	if limiter == nil {
		return nil
	}

	estimatedTokens := estimator.EstimateTokens(prompt) + inputImages*imageTokenCost + tokenBuffer

	if config.WaitOnRateLimit {
		if err := limiter.WaitAndConsume(ctx, estimatedTokens, config.MaxWaitDuration); err != nil {
			return &RateLimitError{
				RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
				LimitType:  "tokens",
				Model:      string(model),
				Err:        err,
			}
		}
		return nil
	}

	if !limiter.TryConsume(estimatedTokens) {
		return &RateLimitError{
			RetryAfter: limiter.TimeUntilAvailable(estimatedTokens),
			LimitType:  "tokens",
			Model:      string(model),
		}
	}

	return nil
}

// resolveModel picks config.Model, then the operation default, then the
// first registered model able to serve op.
func (m *Manager) resolveModel(op Operation, config *GenerateConfig) Model {
	if config != nil && config.Model != "" {
		return config.Model
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if model, ok := m.defaultModels[op]; ok {
		return model
	}

	model, _ := lo.Find(m.order, func(model Model) bool {
		info := m.modelInfo[model]
		return info != nil && info.Supports(op)
	})
	return model
}

// getGeneratorForModel checks the call against the model's capabilities and
// returns the provider for model with a config copy carrying the provider's
// API model name. NumberOfImages is capped at the model's MaxOutputImages.
func (m *Manager) getGeneratorForModel(op Operation, model Model, config *GenerateConfig, inputImages int) (ImageGenerator, *GenerateConfig, error) {
	m.mu.RLock()
	mapping, ok := m.modelMappings[model]
	info := m.modelInfo[model]
	gen, hasProvider := m.providers[mapping.Provider]
	m.mu.RUnlock()

	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrModelNotRegistered, model)
	}
	if info != nil {
		if !info.Supports(op) {
			return nil, nil, fmt.Errorf("%w: %s cannot %s", ErrOperationNotSupported, model, op)
		}
		if !info.SupportsAspectRatio(config.AspectRatio) {
			return nil, nil, fmt.Errorf("%w: %s does not offer %q", ErrAspectRatioNotSupported, model, config.AspectRatio)
		}
		if limit := info.Capabilities.MaxInputImages; limit > 0 && inputImages > limit {
			return nil, nil, fmt.Errorf("%w: %s accepts %d, got %d", ErrTooManyInputImages, model, limit, inputImages)
		}
	}
	if !hasProvider {
		return nil, nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, mapping.Provider)
	}

	actualConfig := config.WithModel(Model(mapping.ActualModelName))
	if info != nil {
		if limit := info.Capabilities.MaxOutputImages; limit > 0 && actualConfig.NumberOfImages > limit {
			actualConfig.NumberOfImages = limit
		}
	}

	return gen, actualConfig, nil
}
