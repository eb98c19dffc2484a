package imagestudio

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Slot names one of the two image inputs.
type Slot string

const (
	SlotPrimary   Slot = "primary"
	SlotSecondary Slot = "secondary"
)

// ParseSlot converts a wire value into a Slot.
func ParseSlot(s string) (Slot, error) {
	switch Slot(s) {
	case SlotPrimary, SlotSecondary:
		return Slot(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSlot, s)
}

// View is a snapshot of a Session for rendering.
type View struct {
	Intent       Intent
	Requirements Requirements
	Outcome      Outcome
}

// Busy reports whether a request is outstanding.
func (v View) Busy() bool {
	return v.Outcome.State == StateInFlight
}

// Session holds the user's intent and forwards submissions to a Studio.
type Session struct {
	studio   *Studio
	now      func() time.Time
	maxBytes int64

	mu     sync.Mutex
	intent Intent
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMaxImageBytes sets the largest image SetImage accepts. Non-positive
// values keep MaxImageSize.
func WithMaxImageBytes(n int64) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxBytes = n
		}
	}
}

// NewSession starts a session in create mode with no images.
func NewSession(studio *Studio, opts ...SessionOption) *Session {
	s := &Session{
		studio:   studio,
		now:      time.Now,
		maxBytes: MaxImageSize,
		intent:   NewIntent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxImageBytes is the largest image the session accepts.
func (s *Session) MaxImageBytes() int64 {
	return s.maxBytes
}

// Intent returns a copy of the current intent.
func (s *Session) Intent() Intent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intent
}

// SetPrompt replaces the prompt text.
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent.Prompt = prompt
}

// SetMode switches between create and edit. Both selected images are
// cleared, even when the mode does not change.
func (s *Session) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent.Mode = mode
	s.intent.Primary = nil
	s.intent.Secondary = nil
}

// SetCreateVariant selects the variant used in create mode.
func (s *Session) SetCreateVariant(v CreateVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent.CreateVariant = v
}

// SetEditVariant selects the variant used in edit mode.
func (s *Session) SetEditVariant(v EditVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent.EditVariant = v
}

// SetImage stores img in the slot after validating it against
// MaxImageBytes.
func (s *Session) SetImage(slot Slot, img InputImage) error {
	if err := ValidateInputImageSize(img, s.maxBytes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case SlotPrimary:
		s.intent.Primary = &img
	case SlotSecondary:
		s.intent.Secondary = &img
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return nil
}

// ClearImage empties the slot.
func (s *Session) ClearImage(slot Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch slot {
	case SlotPrimary:
		s.intent.Primary = nil
	case SlotSecondary:
		s.intent.Secondary = nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}
	return nil
}

// Generate submits the current intent and waits for the outcome.
func (s *Session) Generate(ctx context.Context) (Outcome, error) {
	return s.studio.Submit(ctx, s.Intent())
}

// Start submits the current intent without waiting. See Studio.Start.
func (s *Session) Start(ctx context.Context) (<-chan Outcome, error) {
	return s.studio.Start(ctx, s.Intent())
}

// EditCurrentImage turns the generated image into the input of a retouch:
// the session switches to edit mode, the result becomes the primary image
// and the outcome slot is cleared. The prompt is kept.
func (s *Session) EditCurrentImage() error {
	outcome := s.studio.Outcome()
	if outcome.State != StateSucceeded {
		return ErrNoResult
	}

	mimeType, data, err := ParseDataURI(outcome.ImageDataURI)
	if err != nil {
		return err
	}
	img := InputImage{
		Data:     data,
		MIMEType: mimeType,
		Name:     DownloadFilename(s.now()),
	}

	if err := s.studio.Reset(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent.Mode = ModeEdit
	s.intent.EditVariant = EditRetouch
	s.intent.Primary = &img
	s.intent.Secondary = nil
	return nil
}

// NewImage resets the session to its initial state.
func (s *Session) NewImage() error {
	if err := s.studio.Reset(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.intent = NewIntent()
	return nil
}

// View returns a snapshot of the intent and the outcome slot.
func (s *Session) View() View {
	in := s.Intent()
	return View{
		Intent:       in,
		Requirements: in.Task().Requirements(),
		Outcome:      s.studio.Outcome(),
	}
}

// Download returns the file name, bytes and MIME type of the generated image.
func (s *Session) Download() (string, []byte, string, error) {
	outcome := s.studio.Outcome()
	if outcome.State != StateSucceeded {
		return "", nil, "", ErrNoResult
	}

	mimeType, data, err := ParseDataURI(outcome.ImageDataURI)
	if err != nil {
		return "", nil, "", err
	}
	return DownloadFilename(s.now()), data, mimeType, nil
}
