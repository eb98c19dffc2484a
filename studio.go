package imagestudio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mhpenta/imagestudio/internal/log"
)

// Operation failure messages, shown after "an error occurred: ".
const (
	msgCreateFailed  = "could not generate the image"
	msgEditFailed    = "could not edit the image"
	msgComposeFailed = "could not compose the images"
)

// Metadata keys attached to every model call.
const (
	MetadataCreateVariant = "create_variant"
	MetadataEditVariant   = "edit_variant"
)

// Studio validates an Intent, runs the matching operation and records the
// result in a single outcome slot. At most one request is outstanding.
type Studio struct {
	gen     ImageGenerator
	logger  *slog.Logger
	timeout time.Duration
	wait    bool

	mu      sync.Mutex
	outcome Outcome
}

// StudioOption configures a Studio.
type StudioOption func(*Studio)

// WithStudioLogger sets the logger used for dispatch and completion events
// when the request context carries none.
func WithStudioLogger(logger *slog.Logger) StudioOption {
	return func(s *Studio) {
		s.logger = logger
	}
}

// WithGenerationTimeout bounds each model call. Zero waits indefinitely.
func WithGenerationTimeout(d time.Duration) StudioOption {
	return func(s *Studio) {
		s.timeout = d
	}
}

// WithWaitOnRateLimit makes model calls wait for rate limiter capacity
// instead of failing with a RateLimitError.
func WithWaitOnRateLimit(wait bool) StudioOption {
	return func(s *Studio) {
		s.wait = wait
	}
}

// NewStudio returns an idle Studio backed by gen.
func NewStudio(gen ImageGenerator, opts ...StudioOption) *Studio {
	s := &Studio{
		gen:     gen,
		logger:  slog.Default(),
		outcome: Idle(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outcome returns the current outcome slot.
func (s *Studio) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// Reset returns the slot to Idle. It fails with ErrRequestInFlight while a
// request is outstanding.
func (s *Studio) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.outcome.Settled() {
		return ErrRequestInFlight
	}
	s.outcome = Idle()
	return nil
}

// Submit runs the intent to completion and returns the final outcome.
func (s *Studio) Submit(ctx context.Context, in Intent) (Outcome, error) {
	done, err := s.Start(ctx, in)
	if err != nil {
		return s.Outcome(), err
	}
	return <-done, nil
}

// Start validates the intent and, if it is valid, marks the slot InFlight
// and runs the operation in the background. The returned channel yields the
// final outcome once. An invalid intent settles the slot as Failed without
// calling the model. A call while another request is outstanding returns
// ErrRequestInFlight and leaves the slot untouched.
func (s *Studio) Start(ctx context.Context, in Intent) (<-chan Outcome, error) {
	done := make(chan Outcome, 1)

	s.mu.Lock()
	if !s.outcome.Settled() {
		s.mu.Unlock()
		return nil, ErrRequestInFlight
	}
	if err := in.Validate(); err != nil {
		failed := Failed(err.Error(), err)
		s.outcome = failed
		s.mu.Unlock()
		done <- failed
		return done, nil
	}
	s.outcome = InFlight()
	s.mu.Unlock()

	req := in.Request()
	go func() {
		outcome := s.run(ctx, req)

		s.mu.Lock()
		s.outcome = outcome
		s.mu.Unlock()

		done <- outcome
	}()
	return done, nil
}

func (s *Studio) run(ctx context.Context, req GenerationRequest) Outcome {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logger, ok := log.FromContext(ctx)
	if !ok {
		logger = s.logger
	}
	logger = logger.With(slog.String("operation", string(req.Operation)))
	start := time.Now()

	dataURI, err := s.dispatch(ctx, req)
	if err != nil {
		logger.Warn("request failed",
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return failure(err)
	}

	logger.Info("request succeeded", "duration_ms", time.Since(start).Milliseconds())
	return Succeeded(dataURI)
}

func (s *Studio) dispatch(ctx context.Context, req GenerationRequest) (string, error) {
	switch req.Operation {
	case OperationCreate:
		return s.create(ctx, req)
	case OperationEdit:
		return s.edit(ctx, req)
	case OperationCompose:
		return s.compose(ctx, req)
	default:
		return "", fmt.Errorf("unknown operation %q", req.Operation)
	}
}

// create returns the first generated image as a PNG data URI.
func (s *Studio) create(ctx context.Context, req GenerationRequest) (string, error) {
	result, err := s.gen.Create(ctx, req.Prompt, &GenerateConfig{
		AspectRatio:     req.AspectRatio,
		NumberOfImages:  1,
		OutputMIMEType:  MIMETypePNG,
		Metadata:        map[string]string{MetadataCreateVariant: string(req.CreateVariant)},
		WaitOnRateLimit: s.wait,
	})
	img, err := firstImage(result, err, msgCreateFailed)
	if err != nil {
		return "", err
	}
	return DataURI(MIMETypePNG, img.Data), nil
}

func (s *Studio) edit(ctx context.Context, req GenerationRequest) (string, error) {
	result, err := s.gen.Edit(ctx, req.Images[0], req.Prompt, s.editConfig(req))
	img, err := firstImage(result, err, msgEditFailed)
	if err != nil {
		return "", err
	}
	return img.DataURI(), nil
}

func (s *Studio) compose(ctx context.Context, req GenerationRequest) (string, error) {
	result, err := s.gen.Compose(ctx, req.Images[0], req.Images[1], req.Prompt, s.editConfig(req))
	img, err := firstImage(result, err, msgComposeFailed)
	if err != nil {
		return "", err
	}
	return img.DataURI(), nil
}

// editConfig carries the edit variant for logging only; it does not change
// what is sent to the model.
func (s *Studio) editConfig(req GenerationRequest) *GenerateConfig {
	return &GenerateConfig{
		NumberOfImages:  1,
		Metadata:        map[string]string{MetadataEditVariant: string(req.EditVariant)},
		WaitOnRateLimit: s.wait,
	}
}

// firstImage picks the first image of a call result. A missing image, either
// reported by the provider or found here, is wrapped with failMsg.
func firstImage(result *GenerateResult, err error, failMsg string) (GeneratedImage, error) {
	if err != nil {
		if errors.Is(err, ErrNoImageReturned) {
			return GeneratedImage{}, fmt.Errorf("%s: %w", failMsg, err)
		}
		return GeneratedImage{}, err
	}

	img, ok := result.First()
	if !ok || len(img.Data) == 0 {
		return GeneratedImage{}, fmt.Errorf("%s: %w", failMsg, ErrNoImageReturned)
	}
	if img.MIMEType == "" {
		img.MIMEType = MIMETypePNG
	}
	return img, nil
}

// failure maps an operation error to the message the user sees.
func failure(err error) Outcome {
	detail := err.Error()
	if detail == "" {
		detail = "please try again"
	}
	return Failed("an error occurred: "+detail, err)
}
